package domain

import (
	"github.com/rs/xid"
)

type NodeKind string

const (
	NodeKindImage  NodeKind = "image-generator"
	NodeKindVideo  NodeKind = "video-generator"
	NodeKindMusic  NodeKind = "music-generator"
	NodeKindText   NodeKind = "text"
	NodeKindPlugin NodeKind = "plugin"
)

func (k NodeKind) IsValid() bool {
	switch k {
	case NodeKindImage, NodeKindVideo, NodeKindMusic, NodeKindText, NodeKindPlugin:
		return true
	}

	return false
}

type PluginKind string

const (
	PluginKindUpscale   PluginKind = "upscale"
	PluginKindErase     PluginKind = "erase"
	PluginKindVectorize PluginKind = "vectorize"
	PluginKindRemoveBG  PluginKind = "remove-bg"
	PluginKindExpand    PluginKind = "expand"
)

// AllPluginKinds lists every plugin subtype, in the order the deletion
// cascade visits them.
var AllPluginKinds = []PluginKind{
	PluginKindUpscale,
	PluginKindErase,
	PluginKindVectorize,
	PluginKindRemoveBG,
	PluginKindExpand,
}

type Position struct {
	X float64
	Y float64
}

// ImageNode is an image generation node on the canvas. When TargetNodeID is
// set the node acts as an intermediate scene frame feeding another node and
// is laid out in the middle column.
type ImageNode struct {
	ID                string
	Position          Position
	Model             string
	Prompt            string
	Width             int
	Height            int
	ReferenceImageIDs []string
	TargetNodeID      string
	ImageURL          string
}

type VideoNode struct {
	ID           string
	Position     Position
	Model        string
	Prompt       string
	Duration     int
	Resolution   string
	AspectRatio  string
	FirstFrameID string
	LastFrameID  string
	VideoURL     string
}

type MusicNode struct {
	ID       string
	Position Position
	Model    string
	Prompt   string
	Duration int
	AudioURL string
}

type TextNode struct {
	ID       string
	Position Position
	Content  string
}

type PluginNode struct {
	ID           string
	Position     Position
	PluginKind   PluginKind
	SourceNodeID string
	ResultURL    string
}

var nodeIDPrefixes = map[NodeKind]string{
	NodeKindImage:  "img",
	NodeKindVideo:  "vid",
	NodeKindMusic:  "mus",
	NodeKindText:   "txt",
	NodeKindPlugin: "plg",
}

// NewNodeID returns a canvas-unique node identifier with a kind prefix.
func NewNodeID(kind NodeKind) string {
	prefix, ok := nodeIDPrefixes[kind]
	if !ok {
		prefix = "node"
	}

	return prefix + "_" + xid.New().String()
}

// Viewport describes the visible canvas region owned by the UI layer.
type Viewport struct {
	Width     float64
	Height    float64
	PanOffset Position
	Scale     float64
}

// Center returns the canvas-space point currently at the middle of the
// viewport. A zero scale is treated as 1 so an unset viewport still yields
// usable coordinates.
func (v Viewport) Center() Position {
	scale := v.Scale
	if scale == 0 {
		scale = 1
	}

	return Position{
		X: (v.Width/2 - v.PanOffset.X) / scale,
		Y: (v.Height/2 - v.PanOffset.Y) / scale,
	}
}
