package domain

import (
	"encoding/json"
	"fmt"
)

type StepAction string

const (
	StepActionCreateNode          StepAction = "create-node"
	StepActionConnectSequentially StepAction = "connect-sequentially"
	StepActionGroupNodes          StepAction = "group-nodes"
	StepActionDeleteNode          StepAction = "delete-node"
)

// Step is one instruction in a plan. The variant set is closed; handlers
// switch exhaustively over the concrete types.
type Step interface {
	Action() StepAction
}

// InstructionPlan is an ordered list of steps. Steps are never reordered or
// executed in parallel.
type InstructionPlan struct {
	Steps []Step
}

type CreateNodeStep struct {
	ID             string        `json:"id"`
	NodeType       NodeKind      `json:"nodeType"`
	Count          int           `json:"count"`
	ConfigTemplate NodeConfig    `json:"config"`
	BatchConfigs   []BatchConfig `json:"batchConfigs,omitempty"`
}

func (CreateNodeStep) Action() StepAction { return StepActionCreateNode }

type ConnectSequentiallyStep struct {
	FromStepID string `json:"fromStepId"`
	ToStepID   string `json:"toStepId,omitempty"`
}

func (ConnectSequentiallyStep) Action() StepAction { return StepActionConnectSequentially }

// GroupNodesStep is recognized but intentionally has no effect. Plans emitted
// by older planners still reference it, so the variant stays in the set.
type GroupNodesStep struct{}

func (GroupNodesStep) Action() StepAction { return StepActionGroupNodes }

type DeleteTarget string

const (
	DeleteTargetImage  DeleteTarget = "image"
	DeleteTargetVideo  DeleteTarget = "video"
	DeleteTargetMusic  DeleteTarget = "music"
	DeleteTargetText   DeleteTarget = "text"
	DeleteTargetPlugin DeleteTarget = "plugin"
	DeleteTargetAll    DeleteTarget = "all"
)

type DeleteNodeStep struct {
	TargetType DeleteTarget `json:"targetType"`
	TargetIDs  []string     `json:"targetIds,omitempty"`
	PluginKind PluginKind   `json:"pluginType,omitempty"`
}

func (DeleteNodeStep) Action() StepAction { return StepActionDeleteNode }

// NodeConfig is the shared configuration template of a create step. Fields
// irrelevant to the step's node kind are ignored by the materializer.
type NodeConfig struct {
	Model             string                 `json:"model,omitempty"`
	Prompt            string                 `json:"prompt,omitempty"`
	Width             int                    `json:"width,omitempty"`
	Height            int                    `json:"height,omitempty"`
	Duration          int                    `json:"duration,omitempty"`
	Resolution        string                 `json:"resolution,omitempty"`
	AspectRatio       string                 `json:"aspectRatio,omitempty"`
	Content           string                 `json:"content,omitempty"`
	PluginKind        PluginKind             `json:"pluginType,omitempty"`
	TargetNodeID      string                 `json:"targetNodeId,omitempty"`
	ReferenceImageIDs []string               `json:"referenceImageIds,omitempty"`
	TargetIDs         []string               `json:"targetIds,omitempty"`
	ConnectToFrames   *ConnectToFramesConfig `json:"connectToFrames,omitempty"`
}

// BatchConfig carries per-node overrides for one materialization within a
// create step. Zero values fall back to the step's config template.
type BatchConfig struct {
	Prompt     string `json:"prompt,omitempty"`
	Duration   int    `json:"duration,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}

type FrameConnectionType string

const (
	FrameConnectionFirstLast  FrameConnectionType = "FIRST_LAST_FRAME"
	FrameConnectionFirstOnly  FrameConnectionType = "FIRST_FRAME_ONLY"
	FrameConnectionImageVideo FrameConnectionType = "IMAGE_TO_VIDEO"
)

type FrameSource string

const (
	FrameSourceStepRef    FrameSource = "STEP_REF"
	FrameSourceUserUpload FrameSource = "USER_UPLOAD"
)

// ConnectToFramesConfig declares how a video node's frame inputs are wired.
// References are either step-relative (step id + index into the step's
// produced nodes) or explicit uploaded-image ids.
type ConnectToFramesConfig struct {
	ConnectionType FrameConnectionType `json:"connectionType"`

	FirstFrameSource FrameSource `json:"firstFrameSource,omitempty"`
	FirstFrameStepID string      `json:"firstFrameStepId,omitempty"`
	FirstFrameIndex  int         `json:"firstFrameIndex,omitempty"`
	FirstFrameID     string      `json:"firstFrameId,omitempty"`

	LastFrameSource FrameSource `json:"lastFrameSource,omitempty"`
	LastFrameStepID string      `json:"lastFrameStepId,omitempty"`
	LastFrameIndex  int         `json:"lastFrameIndex,omitempty"`
	LastFrameID     string      `json:"lastFrameId,omitempty"`

	FrameSource FrameSource `json:"frameSource,omitempty"`
	FrameStepID string      `json:"frameStepId,omitempty"`
	FrameIndex  int         `json:"frameIndex,omitempty"`
	FrameID     string      `json:"frameId,omitempty"`
}

type stepEnvelope struct {
	Action StepAction `json:"action"`
}

type planEnvelope struct {
	Steps []json.RawMessage `json:"steps"`
}

// UnmarshalJSON decodes the JSON plan shape into the closed step variant set.
// An unknown action is rejected up front, before any step executes.
func (p *InstructionPlan) UnmarshalJSON(data []byte) error {
	var envelope planEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode instruction plan: %w", err)
	}

	steps := make([]Step, 0, len(envelope.Steps))

	for i, raw := range envelope.Steps {
		var header stepEnvelope
		if err := json.Unmarshal(raw, &header); err != nil {
			return fmt.Errorf("failed to decode step %d: %w", i, err)
		}

		step, err := decodeStep(header.Action, raw)
		if err != nil {
			return fmt.Errorf("failed to decode step %d: %w", i, err)
		}

		steps = append(steps, step)
	}

	p.Steps = steps

	return nil
}

func decodeStep(action StepAction, raw json.RawMessage) (Step, error) {
	switch action {
	case StepActionCreateNode:
		var step CreateNodeStep
		if err := json.Unmarshal(raw, &step); err != nil {
			return nil, err
		}
		return step, nil
	case StepActionConnectSequentially:
		var step ConnectSequentiallyStep
		if err := json.Unmarshal(raw, &step); err != nil {
			return nil, err
		}
		return step, nil
	case StepActionGroupNodes:
		return GroupNodesStep{}, nil
	case StepActionDeleteNode:
		var step DeleteNodeStep
		if err := json.Unmarshal(raw, &step); err != nil {
			return nil, err
		}
		return step, nil
	default:
		return nil, fmt.Errorf("unknown step action %q", action)
	}
}
