package flow

import (
	"github.com/frameflow-ai/frameflow/internal/domain"
)

// Segment is a time-boxed slice of the requested video duration, bounded by
// the model's maximum per-clip duration. Only the final segment may be
// shorter than the model maximum.
type Segment struct {
	Index        int
	StartSeconds int
	EndSeconds   int
}

func (s Segment) Duration() int {
	return s.EndSeconds - s.StartSeconds
}

// SegmentCount returns how many clips are needed to cover totalSeconds with
// the given video model.
func SegmentCount(totalSeconds int, model string) int {
	if totalSeconds <= 0 {
		return 0
	}

	maxClip := domain.MaxClipSeconds(model)

	return (totalSeconds + maxClip - 1) / maxClip
}

// Segments splits totalSeconds into per-clip time windows.
func Segments(totalSeconds int, model string) []Segment {
	count := SegmentCount(totalSeconds, model)
	if count == 0 {
		return nil
	}

	maxClip := domain.MaxClipSeconds(model)
	segments := make([]Segment, 0, count)

	for i := 0; i < count; i++ {
		end := (i + 1) * maxClip
		if end > totalSeconds {
			end = totalSeconds
		}

		segments = append(segments, Segment{
			Index:        i,
			StartSeconds: i * maxClip,
			EndSeconds:   end,
		})
	}

	return segments
}
