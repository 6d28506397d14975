package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

func TestAllocator_ColumnPlacement(t *testing.T) {
	params := DefaultLayoutParams()
	center := domain.Position{X: 1000, Y: 500}

	// Two plain images, one scene-frame image, two videos.
	alloc := newAllocator(params, center, 3, 2)

	left1 := alloc.placeImage(false)
	left2 := alloc.placeImage(false)
	middle := alloc.placeImage(true)
	right1 := alloc.placeVideo()
	right2 := alloc.placeVideo()

	// Image columns start centered on the image count: 500 - (2*500)/2 = 0.
	assert.Equal(t, domain.Position{X: 600, Y: 0}, left1)
	assert.Equal(t, domain.Position{X: 600, Y: 500}, left2)
	assert.Equal(t, domain.Position{X: 1000, Y: 0}, middle)

	// Video column centers on the video count: 500 - (1*500)/2 = 250.
	assert.Equal(t, domain.Position{X: 1400, Y: 250}, right1)
	assert.Equal(t, domain.Position{X: 1400, Y: 750}, right2)
}

func TestAllocator_Deterministic(t *testing.T) {
	params := DefaultLayoutParams()
	center := domain.Position{X: 0, Y: 0}

	a := newAllocator(params, center, 2, 2)
	b := newAllocator(params, center, 2, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, a.placeImage(false), b.placeImage(false))
		assert.Equal(t, a.placeVideo(), b.placeVideo())
	}
}

func TestAllocator_FallbackColumns(t *testing.T) {
	params := DefaultLayoutParams()
	center := domain.Position{X: 100, Y: 200}

	alloc := newAllocator(params, center, 0, 0)

	first := alloc.placeOther()
	second := alloc.placeOther()
	assert.Equal(t, domain.Position{X: 100, Y: 200}, first)
	assert.Equal(t, domain.Position{X: 100, Y: 700}, second)

	alloc.advanceFallbackColumn()

	third := alloc.placeOther()
	assert.Equal(t, domain.Position{X: 800, Y: 200}, third)
}

func TestPlannedNodeCounts(t *testing.T) {
	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "a", NodeType: domain.NodeKindImage, Count: 3},
			domain.CreateNodeStep{ID: "b", NodeType: domain.NodeKindImage, BatchConfigs: []domain.BatchConfig{{Prompt: "x"}, {Prompt: "y"}}},
			domain.CreateNodeStep{ID: "c", NodeType: domain.NodeKindVideo, Count: 2},
			domain.CreateNodeStep{ID: "d", NodeType: domain.NodeKindMusic, Count: 5},
			domain.ConnectSequentiallyStep{FromStepID: "a"},
		},
	}

	images, videos := plannedNodeCounts(plan)
	assert.Equal(t, 5, images)
	assert.Equal(t, 2, videos)
}

func TestViewportCenter(t *testing.T) {
	v := domain.Viewport{
		Width:     1920,
		Height:    1080,
		PanOffset: domain.Position{X: -40, Y: 60},
		Scale:     2,
	}

	center := v.Center()
	require.Equal(t, domain.Position{X: 500, Y: 240}, center)

	// Zero scale behaves as scale 1.
	unset := domain.Viewport{Width: 100, Height: 100}
	assert.Equal(t, domain.Position{X: 50, Y: 50}, unset.Center())
}
