// Package flow turns a single natural-language video request into a segmented
// script, per-segment visual prompts, and an instruction plan implementing
// one of two generation topologies.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/frameflow-ai/frameflow/internal/domain"
	"github.com/frameflow-ai/frameflow/pkg/prompt"
)

type Strategy string

const (
	// StrategySequential generates one image per segment feeding one video,
	// with videos chained for continuity.
	StrategySequential Strategy = "sequential"

	// StrategyFirstLast generates an opening and a closing image per segment,
	// both feeding the same video; segments stay independent.
	StrategyFirstLast Strategy = "first-last-frame"
)

var (
	ErrInvalidDuration = errors.New("total duration must be positive")
	ErrMissingTopic    = errors.New("a topic or a user script is required")
	ErrUnknownStrategy = errors.New("unknown flow strategy")
)

// VideoFlowConfig describes one duration-driven video request.
type VideoFlowConfig struct {
	TotalDuration int
	Topic         string
	Style         string
	AspectRatio   string
	Resolution    string
	Model         string
	UserScript    string
}

type Scene struct {
	SceneNumber int
	TimeStart   int
	TimeEnd     int
	Duration    int
	Script      string
	Description string
}

type FramePrompt struct {
	FrameIndex  int
	TimeStart   int
	TimeEnd     int
	Prompt      string
	SceneNumber int
	SceneScript string
}

// Result carries everything one flow generation produced. Only the plan's
// effects persist once executed; the scenes and prompts are for display.
type Result struct {
	RunID        string
	Script       string
	Scenes       []Scene
	FramePrompts []FramePrompt
	Plan         *domain.InstructionPlan
}

type Generator struct {
	completer prompt.Completer
}

func NewGenerator(completer prompt.Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate produces the script, scenes, frame prompts and instruction plan
// for the requested strategy. Input problems are rejected before anything is
// generated; completion-service failures never surface, they degrade to the
// local fallbacks.
func (g *Generator) Generate(ctx context.Context, cfg VideoFlowConfig, strategy Strategy) (*Result, error) {
	if cfg.TotalDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	if strings.TrimSpace(cfg.Topic) == "" && strings.TrimSpace(cfg.UserScript) == "" {
		return nil, ErrMissingTopic
	}
	if strategy != StrategySequential && strategy != StrategyFirstLast {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	if cfg.Model == "" {
		cfg.Model = domain.DefaultVideoModel
	}

	runID := uuid.NewString()
	segments := Segments(cfg.TotalDuration, cfg.Model)

	log.Info().
		Str("run_id", runID).
		Int("total_duration", cfg.TotalDuration).
		Str("model", cfg.Model).
		Int("segments", len(segments)).
		Str("strategy", string(strategy)).
		Msg("generating video flow")

	script := g.acquireScript(ctx, cfg, len(segments))
	scenes := divideScenes(script, segments)

	framePrompts := make([]FramePrompt, 0, len(scenes))
	for i, scene := range scenes {
		framePrompts = append(framePrompts, FramePrompt{
			FrameIndex:  i,
			TimeStart:   scene.TimeStart,
			TimeEnd:     scene.TimeEnd,
			Prompt:      g.framePrompt(ctx, scene, cfg.Style),
			SceneNumber: scene.SceneNumber,
			SceneScript: scene.Script,
		})
	}

	var plan *domain.InstructionPlan
	switch strategy {
	case StrategySequential:
		plan = buildSequentialPlan(cfg, scenes, framePrompts)
	case StrategyFirstLast:
		plan = buildFirstLastPlan(cfg, scenes, framePrompts)
	}

	return &Result{
		RunID:        runID,
		Script:       script,
		Scenes:       scenes,
		FramePrompts: framePrompts,
		Plan:         plan,
	}, nil
}
