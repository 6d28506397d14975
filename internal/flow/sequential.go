package flow

import (
	"fmt"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

const sceneImagesStepID = "scene-images"

// buildSequentialPlan emits one image per segment feeding exactly one video,
// plus a continuity chain between consecutive videos.
func buildSequentialPlan(cfg VideoFlowConfig, scenes []Scene, prompts []FramePrompt) *domain.InstructionPlan {
	steps := make([]domain.Step, 0, 2*len(scenes))

	batches := make([]domain.BatchConfig, 0, len(prompts))
	for _, fp := range prompts {
		batches = append(batches, domain.BatchConfig{Prompt: fp.Prompt})
	}

	steps = append(steps, domain.CreateNodeStep{
		ID:       sceneImagesStepID,
		NodeType: domain.NodeKindImage,
		Count:    len(scenes),
		ConfigTemplate: domain.NodeConfig{
			Model: domain.DefaultImageModel,
		},
		BatchConfigs: batches,
	})

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
					ConnectionType: domain.FrameConnectionImageVideo,
					FrameSource:    domain.FrameSourceStepRef,
					FrameStepID:    sceneImagesStepID,
					FrameIndex:     i,
				},
			},
		})
	}

	// Each clip hands its motion off to the next segment's generator.
	for i := 0; i+1 < len(scenes); i++ {
		steps = append(steps, domain.ConnectSequentiallyStep{
			FromStepID: segmentVideoStepID(i),
			ToStepID:   segmentVideoStepID(i + 1),
		})
	}

	return &domain.InstructionPlan{Steps: steps}
}

func segmentVideoStepID(i int) string {
	return fmt.Sprintf("segment-video-%d", i+1)
}
