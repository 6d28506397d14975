package domain

import "context"

// CanvasStore is the canvas-state collaborator owned by the UI layer. The
// engine appends nodes and connections through it and never holds
// authoritative node state of its own.
//
// The Add/Set/Get methods mutate an in-memory collection synchronously; the
// Persist methods write durably and may fail independently, in which case
// in-memory state is not rolled back (see Engine docs for the consistency
// contract).
type CanvasStore interface {
	ImageNodes() []ImageNode
	AddImageNode(node ImageNode)
	SetImageNodes(nodes []ImageNode)
	UpdateImageNode(id string, update func(*ImageNode)) bool

	VideoNodes() []VideoNode
	AddVideoNode(node VideoNode)
	SetVideoNodes(nodes []VideoNode)
	UpdateVideoNode(id string, update func(*VideoNode)) bool

	MusicNodes() []MusicNode
	AddMusicNode(node MusicNode)
	SetMusicNodes(nodes []MusicNode)

	TextNodes() []TextNode
	AddTextNode(node TextNode)
	SetTextNodes(nodes []TextNode)

	PluginNodes() []PluginNode
	AddPluginNode(node PluginNode)
	SetPluginNodes(nodes []PluginNode)

	Connections() []Connection
	AddConnection(conn Connection)

	SelectedNodeIDs() []string
	SetSelectedNodeIDs(ids []string)

	Viewport() Viewport

	PersistImageNodeCreate(ctx context.Context, node ImageNode) error
	PersistVideoNodeCreate(ctx context.Context, node VideoNode) error
	PersistMusicNodeCreate(ctx context.Context, node MusicNode) error
	PersistTextNodeCreate(ctx context.Context, node TextNode) error
	PersistPluginNodeCreate(ctx context.Context, node PluginNode) error
	PersistConnectionCreate(ctx context.Context, conn Connection) error
	PersistNodeDelete(ctx context.Context, kind NodeKind, id string) error
}

// NodeSnapshot is the kind-erased record handed to durable storage backends.
type NodeSnapshot struct {
	ID       string
	Kind     NodeKind
	Position Position
	Data     map[string]any
}

// Persister is a durable storage backend behind a CanvasStore. Implementations
// must tolerate repeated deletes of the same id.
type Persister interface {
	CreateNode(ctx context.Context, snapshot NodeSnapshot) error
	DeleteNode(ctx context.Context, kind NodeKind, id string) error
	CreateConnection(ctx context.Context, conn Connection) error
}

// SnapshotImageNode converts a node to its storage representation.
func SnapshotImageNode(n ImageNode) NodeSnapshot {
	return NodeSnapshot{
		ID:       n.ID,
		Kind:     NodeKindImage,
		Position: n.Position,
		Data: map[string]any{
			"model":             n.Model,
			"prompt":            n.Prompt,
			"width":             n.Width,
			"height":            n.Height,
			"referenceImageIds": n.ReferenceImageIDs,
			"targetNodeId":      n.TargetNodeID,
			"imageUrl":          n.ImageURL,
		},
	}
}

func SnapshotVideoNode(n VideoNode) NodeSnapshot {
	return NodeSnapshot{
		ID:       n.ID,
		Kind:     NodeKindVideo,
		Position: n.Position,
		Data: map[string]any{
			"model":        n.Model,
			"prompt":       n.Prompt,
			"duration":     n.Duration,
			"resolution":   n.Resolution,
			"aspectRatio":  n.AspectRatio,
			"firstFrameId": n.FirstFrameID,
			"lastFrameId":  n.LastFrameID,
			"videoUrl":     n.VideoURL,
		},
	}
}

func SnapshotMusicNode(n MusicNode) NodeSnapshot {
	return NodeSnapshot{
		ID:       n.ID,
		Kind:     NodeKindMusic,
		Position: n.Position,
		Data: map[string]any{
			"model":    n.Model,
			"prompt":   n.Prompt,
			"duration": n.Duration,
			"audioUrl": n.AudioURL,
		},
	}
}

func SnapshotTextNode(n TextNode) NodeSnapshot {
	return NodeSnapshot{
		ID:       n.ID,
		Kind:     NodeKindText,
		Position: n.Position,
		Data: map[string]any{
			"content": n.Content,
		},
	}
}

func SnapshotPluginNode(n PluginNode) NodeSnapshot {
	return NodeSnapshot{
		ID:       n.ID,
		Kind:     NodeKindPlugin,
		Position: n.Position,
		Data: map[string]any{
			"pluginType":   string(n.PluginKind),
			"sourceNodeId": n.SourceNodeID,
			"resultUrl":    n.ResultURL,
		},
	}
}
