package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

// resolver turns frame references (explicit uploaded-image ids, or step id +
// index pairs) into concrete node ids and emits the resulting edges.
type resolver struct {
	store    domain.CanvasStore
	registry *StepRegistry
}

func newResolver(store domain.CanvasStore, registry *StepRegistry) *resolver {
	return &resolver{
		store:    store,
		registry: registry,
	}
}

// frameLinks holds the resolved frame inputs of a video node. Empty ids mean
// no connection on that slot.
type frameLinks struct {
	first string
	last  string
}

// resolveVideoFrames applies the connection policy of a video node's config.
// With no connectToFrames config present the legacy fallback applies: the
// template's explicit target ids or, failing that, the caller's current
// selection, taken as first (and optionally last) frame.
func (r *resolver) resolveVideoFrames(cfg *domain.ConnectToFramesConfig, template domain.NodeConfig) frameLinks {
	if cfg == nil {
		return r.resolveLegacyFrames(template)
	}

	switch cfg.ConnectionType {
	case domain.FrameConnectionFirstLast:
		first, firstOK := r.resolveFrameRef(cfg.FirstFrameSource, cfg.FirstFrameID, cfg.FirstFrameStepID, cfg.FirstFrameIndex)
		last, lastOK := r.resolveFrameRef(cfg.LastFrameSource, cfg.LastFrameID, cfg.LastFrameStepID, cfg.LastFrameIndex)

		// Both frames must resolve for either edge to exist. A half-wired
		// first/last pair would silently change the generation mode.
		if !firstOK || !lastOK {
			log.Warn().
				Bool("first_resolved", firstOK).
				Bool("last_resolved", lastOK).
				Str("first_step_id", cfg.FirstFrameStepID).
				Str("last_step_id", cfg.LastFrameStepID).
				Msg("first/last frame pair did not fully resolve, skipping both connections")

			return frameLinks{}
		}

		return frameLinks{first: first, last: last}

	case domain.FrameConnectionFirstOnly:
		first, ok := r.resolveFrameRef(cfg.FirstFrameSource, cfg.FirstFrameID, cfg.FirstFrameStepID, cfg.FirstFrameIndex)
		if !ok {
			log.Warn().Str("step_id", cfg.FirstFrameStepID).Msg("first frame did not resolve")

			return frameLinks{}
		}

		return frameLinks{first: first}

	case domain.FrameConnectionImageVideo:
		frame, ok := r.resolveFrameRef(cfg.FrameSource, cfg.FrameID, cfg.FrameStepID, cfg.FrameIndex)
		if !ok {
			log.Warn().Str("step_id", cfg.FrameStepID).Msg("source frame did not resolve")

			return frameLinks{}
		}

		return frameLinks{first: frame}

	default:
		log.Warn().Str("connection_type", string(cfg.ConnectionType)).Msg("unknown frame connection type")

		return frameLinks{}
	}
}

func (r *resolver) resolveLegacyFrames(template domain.NodeConfig) frameLinks {
	targetIDs := template.TargetIDs
	if len(targetIDs) == 0 {
		targetIDs = r.store.SelectedNodeIDs()
	}

	links := frameLinks{}

	if len(targetIDs) > 0 {
		links.first = targetIDs[0]
	}
	if len(targetIDs) > 1 {
		links.last = targetIDs[1]
	}

	return links
}

// resolveFrameRef resolves one frame slot: an uploaded-image id when the
// source says so, otherwise an index into the referenced step's registry
// entry. The index defaults to 0.
func (r *resolver) resolveFrameRef(source domain.FrameSource, explicitID, stepID string, index int) (string, bool) {
	if source == domain.FrameSourceUserUpload {
		if explicitID == "" {
			return "", false
		}

		return explicitID, true
	}

	if explicitID != "" {
		return explicitID, true
	}

	if stepID == "" {
		return "", false
	}

	return r.registry.NodeAt(stepID, index)
}

// connectFrames emits the frame edges of a freshly materialized video node.
func (r *resolver) connectFrames(ctx context.Context, videoID string, links frameLinks) {
	if links.first != "" {
		r.createConnection(ctx, links.first, videoID, domain.ConnectionColorFirstFrame, domain.ConnectionLabelFirstFrame)
	}

	if links.last != "" {
		r.createConnection(ctx, links.last, videoID, domain.ConnectionColorLastFrame, domain.ConnectionLabelLastFrame)
	}
}

// connectImage wires a freshly materialized image node: each reference image
// feeds into it, and it feeds into its explicit target if one is set.
func (r *resolver) connectImage(ctx context.Context, node domain.ImageNode) {
	for _, refID := range node.ReferenceImageIDs {
		r.createConnection(ctx, refID, node.ID, domain.ConnectionColorDefault, "")
	}

	if node.TargetNodeID != "" {
		r.createConnection(ctx, node.ID, node.TargetNodeID, domain.ConnectionColorDefault, "")
	}
}

// createConnection stores and persists one edge, skipping exact (from, to)
// duplicates. Repeated generations targeting the same pair would otherwise
// stack identical edges.
func (r *resolver) createConnection(ctx context.Context, from, to, color, label string) {
	if from == "" || to == "" || from == to {
		return
	}

	if r.connectionExists(from, to) {
		log.Debug().Str("from", from).Str("to", to).Msg("connection already exists, skipping")

		return
	}

	conn := domain.NewConnection(from, to, color, label)
	r.store.AddConnection(conn)

	if err := r.store.PersistConnectionCreate(ctx, conn); err != nil {
		log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to persist connection")
	}
}

func (r *resolver) connectionExists(from, to string) bool {
	for _, conn := range r.store.Connections() {
		if conn.From == from && conn.To == to {
			return true
		}
	}

	return false
}
