package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

const (
	firstFramesStepID = "first-frames"
	lastFramesStepID  = "last-frames"
)

// buildFirstLastPlan emits an opening and a closing image per segment, both
// feeding the same video as first/last frame. Videos are not chained: each
// segment is generated independently, bounded by its own two frames.
func buildFirstLastPlan(cfg VideoFlowConfig, scenes []Scene, prompts []FramePrompt) *domain.InstructionPlan {
	steps := make([]domain.Step, 0, 2+len(scenes))

	firstBatches := make([]domain.BatchConfig, 0, len(scenes))
	lastBatches := make([]domain.BatchConfig, 0, len(scenes))

	for i, scene := range scenes {
		firstBatches = append(firstBatches, domain.BatchConfig{
			Prompt: openingPrompt(scene, prompts[i], cfg.Style),
		})
		lastBatches = append(lastBatches, domain.BatchConfig{
			Prompt: closingPrompt(scene, prompts[i], cfg.Style),
		})
	}

	steps = append(steps,
		domain.CreateNodeStep{
			ID:       firstFramesStepID,
			NodeType: domain.NodeKindImage,
			Count:    len(scenes),
			ConfigTemplate: domain.NodeConfig{
				Model: domain.DefaultImageModel,
			},
			BatchConfigs: firstBatches,
		},
		domain.CreateNodeStep{
			ID:       lastFramesStepID,
			NodeType: domain.NodeKindImage,
			Count:    len(scenes),
			ConfigTemplate: domain.NodeConfig{
				Model: domain.DefaultImageModel,
			},
			BatchConfigs: lastBatches,
		},
	)

	for i, scene := range scenes {
		steps = append(steps, domain.CreateNodeStep{
			ID:       segmentVideoStepID(i),
			NodeType: domain.NodeKindVideo,
			Count:    1,
			ConfigTemplate: domain.NodeConfig{
				Model:       cfg.Model,
				Prompt:      scene.Script,
				Duration:    scene.Duration,
				Resolution:  cfg.Resolution,
				AspectRatio: cfg.AspectRatio,
				ConnectToFrames: &domain.ConnectToFramesConfig{
					ConnectionType:   domain.FrameConnectionFirstLast,
					FirstFrameSource: domain.FrameSourceStepRef,
					FirstFrameStepID: firstFramesStepID,
					FirstFrameIndex:  i,
					LastFrameSource:  domain.FrameSourceStepRef,
					LastFrameStepID:  lastFramesStepID,
					LastFrameIndex:   i,
				},
			},
		})
	}

	return &domain.InstructionPlan{Steps: steps}
}

// openingPrompt frames the start of the scene text as the segment's first
// still.
func openingPrompt(scene Scene, fp FramePrompt, style string) string {
	text := sceneOpening(scene.Script)
	if text == "" {
		// The condensed frame prompt already carries the style suffix.
		return "Opening shot: " + fp.Prompt
	}

	return applyStyle("Opening shot: "+text, style)
}

// closingPrompt frames the end of the scene text as the segment's last still.
func closingPrompt(scene Scene, fp FramePrompt, style string) string {
	text := sceneClosing(scene.Script)
	if text == "" {
		return "Closing shot: " + fp.Prompt
	}

	return applyStyle("Closing shot: "+text, style)
}

func sceneOpening(script string) string {
	return truncateRunes(strings.TrimSpace(script), condenseThreshold)
}

func sceneClosing(script string) string {
	trimmed := strings.TrimSpace(script)
	runes := []rune(trimmed)

	if utf8.RuneCountInString(trimmed) <= condenseThreshold {
		return trimmed
	}

	return strings.TrimSpace(string(runes[len(runes)-condenseThreshold:]))
}

func applyStyle(text, style string) string {
	if style == "" {
		return text
	}

	return text + ", " + style + " style"
}
