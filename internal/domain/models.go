package domain

// DefaultMaxClipSeconds is used for video models without a catalog entry.
const DefaultMaxClipSeconds = 8

const (
	DefaultImageModel = "flux-pro"
	DefaultVideoModel = "kling-v1.6"
	DefaultMusicModel = "lyria"

	DefaultImageWidth  = 1024
	DefaultImageHeight = 1024

	DefaultResolution  = "1080p"
	DefaultAspectRatio = "16:9"
)

// videoModelMaxSeconds maps a video model to the longest single clip it can
// generate. Segmentation of longer requests is driven by this table.
var videoModelMaxSeconds = map[string]int{
	"kling-v1.6":    10,
	"kling-v2":      10,
	"runway-gen3":   10,
	"luma-ray2":     9,
	"veo-2":         8,
	"veo-3":         8,
	"minimax-01":    6,
	"pixverse-v3.5": 8,
	"hunyuan-video": 5,
}

// MaxClipSeconds returns the per-clip duration ceiling for a video model,
// falling back to DefaultMaxClipSeconds for unknown models.
func MaxClipSeconds(model string) int {
	if max, ok := videoModelMaxSeconds[model]; ok {
		return max
	}

	return DefaultMaxClipSeconds
}
