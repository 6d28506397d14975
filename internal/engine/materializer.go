package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

// materializer turns one slot of a create step into an actual node record
// plus its persistence call and any auto-connect edges. Persistence failures
// are logged and do not roll the in-memory node back; callers showing
// progressive canvas updates rely on the node appearing immediately.
type materializer struct {
	store    domain.CanvasStore
	layout   *allocator
	resolver *resolver
}

func newMaterializer(store domain.CanvasStore, layout *allocator, resolver *resolver) *materializer {
	return &materializer{
		store:    store,
		layout:   layout,
		resolver: resolver,
	}
}

// materialize creates one node of the given kind. The batch config overrides
// the template's prompt, duration and resolution for this slot only. The
// returned id is registered under the step that requested the node.
func (m *materializer) materialize(ctx context.Context, kind domain.NodeKind, template domain.NodeConfig, batch domain.BatchConfig) (string, error) {
	config := mergeConfig(template, batch)

	switch kind {
	case domain.NodeKindImage:
		return m.materializeImage(ctx, config)
	case domain.NodeKindVideo:
		return m.materializeVideo(ctx, config)
	case domain.NodeKindMusic:
		return m.materializeMusic(ctx, config)
	case domain.NodeKindText:
		return m.materializeText(ctx, config)
	case domain.NodeKindPlugin:
		return m.materializePlugin(ctx, config)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownNodeKind, kind)
	}
}

// mergeConfig applies per-slot batch overrides on top of the step template.
func mergeConfig(template domain.NodeConfig, batch domain.BatchConfig) domain.NodeConfig {
	config := template

	if batch.Prompt != "" {
		config.Prompt = batch.Prompt
	}
	if batch.Duration > 0 {
		config.Duration = batch.Duration
	}
	if batch.Resolution != "" {
		config.Resolution = batch.Resolution
	}

	return config
}

func (m *materializer) materializeImage(ctx context.Context, config domain.NodeConfig) (string, error) {
	node := domain.ImageNode{
		ID:                domain.NewNodeID(domain.NodeKindImage),
		Position:          m.layout.placeImage(config.TargetNodeID != ""),
		Model:             config.Model,
		Prompt:            config.Prompt,
		Width:             config.Width,
		Height:            config.Height,
		ReferenceImageIDs: config.ReferenceImageIDs,
		TargetNodeID:      config.TargetNodeID,
	}

	if node.Model == "" {
		node.Model = domain.DefaultImageModel
	}
	if node.Width <= 0 {
		node.Width = domain.DefaultImageWidth
	}
	if node.Height <= 0 {
		node.Height = domain.DefaultImageHeight
	}

	m.store.AddImageNode(node)

	if err := m.store.PersistImageNodeCreate(ctx, node); err != nil {
		log.Error().Err(err).Str("node_id", node.ID).Msg("failed to persist image node")
	}

	m.resolver.connectImage(ctx, node)

	return node.ID, nil
}

func (m *materializer) materializeVideo(ctx context.Context, config domain.NodeConfig) (string, error) {
	links := m.resolver.resolveVideoFrames(config.ConnectToFrames, config)

	node := domain.VideoNode{
		ID:           domain.NewNodeID(domain.NodeKindVideo),
		Position:     m.layout.placeVideo(),
		Model:        config.Model,
		Prompt:       config.Prompt,
		Duration:     config.Duration,
		Resolution:   config.Resolution,
		AspectRatio:  config.AspectRatio,
		FirstFrameID: links.first,
		LastFrameID:  links.last,
	}

	if node.Model == "" {
		node.Model = domain.DefaultVideoModel
	}
	if node.Duration <= 0 {
		node.Duration = domain.MaxClipSeconds(node.Model)
	}
	if node.Resolution == "" {
		node.Resolution = domain.DefaultResolution
	}
	if node.AspectRatio == "" {
		node.AspectRatio = domain.DefaultAspectRatio
	}

	m.store.AddVideoNode(node)

	if err := m.store.PersistVideoNodeCreate(ctx, node); err != nil {
		log.Error().Err(err).Str("node_id", node.ID).Msg("failed to persist video node")
	}

	m.resolver.connectFrames(ctx, node.ID, links)

	return node.ID, nil
}

func (m *materializer) materializeMusic(ctx context.Context, config domain.NodeConfig) (string, error) {
	node := domain.MusicNode{
		ID:       domain.NewNodeID(domain.NodeKindMusic),
		Position: m.layout.placeOther(),
		Model:    config.Model,
		Prompt:   config.Prompt,
		Duration: config.Duration,
	}

	if node.Model == "" {
		node.Model = domain.DefaultMusicModel
	}

	m.store.AddMusicNode(node)

	if err := m.store.PersistMusicNodeCreate(ctx, node); err != nil {
		log.Error().Err(err).Str("node_id", node.ID).Msg("failed to persist music node")
	}

	return node.ID, nil
}

func (m *materializer) materializeText(ctx context.Context, config domain.NodeConfig) (string, error) {
	content := config.Content
	if content == "" {
		content = config.Prompt
	}

	node := domain.TextNode{
		ID:       domain.NewNodeID(domain.NodeKindText),
		Position: m.layout.placeOther(),
		Content:  content,
	}

	m.store.AddTextNode(node)

	if err := m.store.PersistTextNodeCreate(ctx, node); err != nil {
		log.Error().Err(err).Str("node_id", node.ID).Msg("failed to persist text node")
	}

	return node.ID, nil
}

func (m *materializer) materializePlugin(ctx context.Context, config domain.NodeConfig) (string, error) {
	sourceID := config.TargetNodeID
	if sourceID == "" && len(config.TargetIDs) > 0 {
		sourceID = config.TargetIDs[0]
	}
	if sourceID == "" {
		if selected := m.store.SelectedNodeIDs(); len(selected) > 0 {
			sourceID = selected[0]
		}
	}

	// Rejected before any state mutation: an edit plugin without a source
	// image has nothing to operate on.
	if sourceID == "" {
		return "", domain.ErrMissingSourceImage
	}

	node := domain.PluginNode{
		ID:           domain.NewNodeID(domain.NodeKindPlugin),
		Position:     m.layout.placeOther(),
		PluginKind:   config.PluginKind,
		SourceNodeID: sourceID,
	}

	if node.PluginKind == "" {
		node.PluginKind = domain.PluginKindUpscale
	}

	m.store.AddPluginNode(node)

	if err := m.store.PersistPluginNodeCreate(ctx, node); err != nil {
		log.Error().Err(err).Str("node_id", node.ID).Msg("failed to persist plugin node")
	}

	m.resolver.createConnection(ctx, sourceID, node.ID, domain.ConnectionColorDefault, "")

	return node.ID, nil
}
