package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionPlanUnmarshal(t *testing.T) {
	data := []byte(`{
		"steps": [
			{
				"action": "create-node",
				"id": "scene-images",
				"nodeType": "image-generator",
				"count": 2,
				"config": {"model": "flux-pro", "prompt": "a harbor"},
				"batchConfigs": [{"prompt": "first"}, {"prompt": "second"}]
			},
			{
				"action": "create-node",
				"id": "clip",
				"nodeType": "video-generator",
				"count": 1,
				"config": {
					"model": "veo-2",
					"duration": 8,
					"connectToFrames": {
						"connectionType": "FIRST_LAST_FRAME",
						"firstFrameSource": "STEP_REF",
						"firstFrameStepId": "scene-images",
						"firstFrameIndex": 0,
						"lastFrameSource": "STEP_REF",
						"lastFrameStepId": "scene-images",
						"lastFrameIndex": 1
					}
				}
			},
			{"action": "connect-sequentially", "fromStepId": "clip"},
			{"action": "group-nodes"},
			{"action": "delete-node", "targetType": "plugin", "pluginType": "upscale"}
		]
	}`)

	var plan InstructionPlan
	require.NoError(t, json.Unmarshal(data, &plan))
	require.Len(t, plan.Steps, 5)

	create, ok := plan.Steps[0].(CreateNodeStep)
	require.True(t, ok)
	assert.Equal(t, "scene-images", create.ID)
	assert.Equal(t, NodeKindImage, create.NodeType)
	assert.Equal(t, 2, create.Count)
	assert.Equal(t, "flux-pro", create.ConfigTemplate.Model)
	require.Len(t, create.BatchConfigs, 2)
	assert.Equal(t, "second", create.BatchConfigs[1].Prompt)

	video, ok := plan.Steps[1].(CreateNodeStep)
	require.True(t, ok)
	require.NotNil(t, video.ConfigTemplate.ConnectToFrames)
	frames := video.ConfigTemplate.ConnectToFrames
	assert.Equal(t, FrameConnectionFirstLast, frames.ConnectionType)
	assert.Equal(t, FrameSourceStepRef, frames.FirstFrameSource)
	assert.Equal(t, "scene-images", frames.FirstFrameStepID)
	assert.Equal(t, 1, frames.LastFrameIndex)

	connect, ok := plan.Steps[2].(ConnectSequentiallyStep)
	require.True(t, ok)
	assert.Equal(t, "clip", connect.FromStepID)
	assert.Empty(t, connect.ToStepID)

	_, ok = plan.Steps[3].(GroupNodesStep)
	assert.True(t, ok)

	del, ok := plan.Steps[4].(DeleteNodeStep)
	require.True(t, ok)
	assert.Equal(t, DeleteTargetPlugin, del.TargetType)
	assert.Equal(t, PluginKindUpscale, del.PluginKind)
}

func TestInstructionPlanUnmarshal_UnknownAction(t *testing.T) {
	data := []byte(`{"steps": [{"action": "teleport-node"}]}`)

	var plan InstructionPlan
	err := json.Unmarshal(data, &plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport-node")
}

func TestNewNodeID_KindPrefixes(t *testing.T) {
	assert.True(t, len(NewNodeID(NodeKindImage)) > 4)
	assert.Equal(t, "img_", NewNodeID(NodeKindImage)[:4])
	assert.Equal(t, "vid_", NewNodeID(NodeKindVideo)[:4])
	assert.NotEqual(t, NewNodeID(NodeKindImage), NewNodeID(NodeKindImage))
}

func TestMaxClipSeconds(t *testing.T) {
	assert.Equal(t, 10, MaxClipSeconds("kling-v1.6"))
	assert.Equal(t, 8, MaxClipSeconds("veo-2"))
	assert.Equal(t, DefaultMaxClipSeconds, MaxClipSeconds("brand-new-model"))
}
