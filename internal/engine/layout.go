package engine

import (
	"github.com/frameflow-ai/frameflow/internal/domain"
)

// LayoutParams controls the column placement grid. Defaults match the canvas
// frame dimensions used by the UI layer.
type LayoutParams struct {
	FrameWidth        float64
	FrameHeight       float64
	VerticalSpacing   float64
	ColumnGap         float64
	HorizontalSpacing float64
}

func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		FrameWidth:        600,
		FrameHeight:       400,
		VerticalSpacing:   500,
		ColumnGap:         800,
		HorizontalSpacing: 700,
	}
}

// allocator computes deterministic, non-colliding positions for nodes created
// by one plan execution. Image nodes occupy a left column (no target
// reference) or a middle column (acting as a scene frame for another node);
// video nodes occupy a right column. Each column is centered vertically on
// the viewport using the pre-scanned node counts, with an independent running
// cursor per column. Other node kinds advance a left-to-right fallback
// cursor, one column per create step.
type allocator struct {
	params LayoutParams
	center domain.Position

	leftY   float64
	middleY float64
	rightY  float64

	fallbackX float64
	fallbackY float64
}

func newAllocator(params LayoutParams, center domain.Position, plannedImages, plannedVideos int) *allocator {
	imageStartY := columnStartY(center.Y, plannedImages, params.VerticalSpacing)
	videoStartY := columnStartY(center.Y, plannedVideos, params.VerticalSpacing)

	return &allocator{
		params:    params,
		center:    center,
		leftY:     imageStartY,
		middleY:   imageStartY,
		rightY:    videoStartY,
		fallbackX: center.X,
		fallbackY: center.Y,
	}
}

func columnStartY(centerY float64, count int, spacing float64) float64 {
	if count < 1 {
		count = 1
	}

	return centerY - float64(count-1)*spacing/2
}

// placeImage returns the next image slot. hasTarget selects the middle column
// used by intermediate scene frames that feed another node.
func (a *allocator) placeImage(hasTarget bool) domain.Position {
	if hasTarget {
		pos := domain.Position{X: a.center.X, Y: a.middleY}
		a.middleY += a.params.VerticalSpacing

		return pos
	}

	pos := domain.Position{X: a.center.X - a.params.ColumnGap/2, Y: a.leftY}
	a.leftY += a.params.VerticalSpacing

	return pos
}

func (a *allocator) placeVideo() domain.Position {
	pos := domain.Position{X: a.center.X + a.params.ColumnGap/2, Y: a.rightY}
	a.rightY += a.params.VerticalSpacing

	return pos
}

// placeOther stacks nodes of non image/video kinds vertically within the
// current fallback column.
func (a *allocator) placeOther() domain.Position {
	pos := domain.Position{X: a.fallbackX, Y: a.fallbackY}
	a.fallbackY += a.params.VerticalSpacing

	return pos
}

// advanceFallbackColumn moves the fallback cursor one column to the right.
// Called once per create step of a non image/video kind.
func (a *allocator) advanceFallbackColumn() {
	a.fallbackX += a.params.HorizontalSpacing
	a.fallbackY = a.center.Y
}

// plannedNodeCounts pre-scans a plan and returns how many image and video
// nodes it will create, so each column can be centered before any node is
// placed.
func plannedNodeCounts(plan *domain.InstructionPlan) (images, videos int) {
	for _, step := range plan.Steps {
		create, ok := step.(domain.CreateNodeStep)
		if !ok {
			continue
		}

		switch create.NodeType {
		case domain.NodeKindImage:
			images += effectiveCreateCount(create)
		case domain.NodeKindVideo:
			videos += effectiveCreateCount(create)
		}
	}

	return images, videos
}

// effectiveCreateCount normalizes a create step's node count. A missing count
// falls back to the batch config length, or a single node.
func effectiveCreateCount(step domain.CreateNodeStep) int {
	if step.Count > 0 {
		return step.Count
	}

	if len(step.BatchConfigs) > 0 {
		return len(step.BatchConfigs)
	}

	return 1
}
