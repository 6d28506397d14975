package flow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/frameflow-ai/frameflow/pkg/prompt"
)

const (
	// minScriptLength is the shortest external completion accepted as a
	// usable narrative; anything shorter falls back to the local template.
	minScriptLength = 50

	// condenseThreshold is the scene length above which the visual prompt is
	// condensed by the completion service instead of used verbatim.
	condenseThreshold = 200
)

// acquireScript returns the narrative for the whole video. A non-blank
// user-supplied script is used verbatim; otherwise the completion service is
// asked for one sized to the segment count, and a deterministic local
// template covers service failures and degenerate results.
func (g *Generator) acquireScript(ctx context.Context, cfg VideoFlowConfig, segmentCount int) string {
	if script := strings.TrimSpace(cfg.UserScript); script != "" {
		return script
	}

	if g.completer != nil {
		request := scriptRequest(cfg, segmentCount)

		raw, err := g.completer.QueryPrompt(ctx, request, 200*segmentCount)
		if err == nil {
			script := prompt.Normalize(raw)
			if utf8.RuneCountInString(script) >= minScriptLength {
				return script
			}

			log.Warn().Int("length", utf8.RuneCountInString(script)).Msg("generated script too short, using local fallback")
		} else {
			log.Warn().Err(err).Msg("script generation failed, using local fallback")
		}
	}

	return fallbackScript(cfg, segmentCount)
}

func scriptRequest(cfg VideoFlowConfig, segmentCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a narration script for a %d-second video about %q.", cfg.TotalDuration, cfg.Topic)
	fmt.Fprintf(&b, " Structure it as exactly %d paragraphs, one per scene, separated by blank lines.", segmentCount)

	if cfg.Style != "" {
		fmt.Fprintf(&b, " The tone and visual style is %s.", cfg.Style)
	}

	b.WriteString(" Return only the script text.")

	return b.String()
}

// fallbackScript synthesizes a deterministic narrative, one paragraph per
// segment, with opening/middle/closing sentences keyed by segment index.
func fallbackScript(cfg VideoFlowConfig, segmentCount int) string {
	paragraphs := make([]string, 0, segmentCount)

	for i := 0; i < segmentCount; i++ {
		switch {
		case i == 0:
			paragraphs = append(paragraphs, fmt.Sprintf(
				"We open on %s, establishing the setting and drawing the viewer in with a wide, inviting view.",
				cfg.Topic))
		case i == segmentCount-1:
			paragraphs = append(paragraphs, fmt.Sprintf(
				"Finally, the story of %s comes to a close, pulling back for a memorable parting image.",
				cfg.Topic))
		default:
			paragraphs = append(paragraphs, fmt.Sprintf(
				"Scene %d explores another side of %s, moving closer to the details that make it distinctive.",
				i+1, cfg.Topic))
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// divideScenes splits the script into one scene per segment. When the script
// has at least as many paragraphs as segments, paragraphs are grouped;
// otherwise the text is cut into equal character ranges.
func divideScenes(script string, segments []Segment) []Scene {
	paragraphs := splitParagraphs(script)
	scenes := make([]Scene, 0, len(segments))

	if len(paragraphs) >= len(segments) {
		groups := groupStrings(paragraphs, len(segments))
		for i, segment := range segments {
			text := strings.Join(groups[i], "\n\n")
			scenes = append(scenes, newScene(i, segment, text))
		}

		return scenes
	}

	runes := []rune(script)
	chunk := len(runes) / len(segments)

	for i, segment := range segments {
		start := i * chunk
		end := start + chunk
		if i == len(segments)-1 {
			end = len(runes)
		}

		scenes = append(scenes, newScene(i, segment, strings.TrimSpace(string(runes[start:end]))))
	}

	return scenes
}

func newScene(index int, segment Segment, text string) Scene {
	return Scene{
		SceneNumber: index + 1,
		TimeStart:   segment.StartSeconds,
		TimeEnd:     segment.EndSeconds,
		Duration:    segment.Duration(),
		Script:      text,
		Description: truncateRunes(text, 120),
	}
}

func splitParagraphs(script string) []string {
	parts := strings.Split(script, "\n\n")
	paragraphs := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	return paragraphs
}

// groupStrings distributes items over n groups as evenly as possible,
// preserving order, with earlier groups taking the remainder.
func groupStrings(items []string, n int) [][]string {
	groups := make([][]string, n)
	base := len(items) / n
	extra := len(items) % n

	cursor := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}

		groups[i] = items[cursor : cursor+size]
		cursor += size
	}

	return groups
}

// framePrompt condenses one scene into a visual description for image
// generation. Long scenes go through the completion service; failures fall
// back to a truncated scene description.
func (g *Generator) framePrompt(ctx context.Context, scene Scene, style string) string {
	text := scene.Script

	if utf8.RuneCountInString(text) > condenseThreshold && g.completer != nil {
		request := fmt.Sprintf(
			"Condense the following scene into a visual description of at most 100 words, focusing on what the camera sees:\n\n%s",
			text)

		raw, err := g.completer.QueryPrompt(ctx, request, 160)
		if err == nil {
			if condensed := prompt.Normalize(raw); condensed != "" {
				text = condensed
			}
		} else {
			log.Warn().Err(err).Int("scene", scene.SceneNumber).Msg("prompt condensation failed, truncating scene text")
		}
	}

	text = truncateRunes(text, condenseThreshold)

	if style != "" {
		text = text + ", " + style + " style"
	}

	return text
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return strings.TrimSpace(string(runes[:limit]))
}
