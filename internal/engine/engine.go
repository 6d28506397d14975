// Package engine materializes instruction plans into the canvas graph. Plans
// arrive as an ordered list of create/connect/group/delete steps; the engine
// processes them strictly in order, carrying a per-step registry of produced
// node ids so later steps can reference earlier ones symbolically.
package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

type Engine struct {
	store        domain.CanvasStore
	layoutParams LayoutParams
}

type Option func(*Engine)

func WithLayoutParams(params LayoutParams) Option {
	return func(e *Engine) {
		e.layoutParams = params
	}
}

func New(store domain.CanvasStore, opts ...Option) *Engine {
	engine := &Engine{
		store:        store,
		layoutParams: DefaultLayoutParams(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// ExecutePlan runs every step of the plan against the canvas store. Step
// failures covered by the error taxonomy (missing references, persistence
// failures, config mismatches) are logged and never abort the remaining
// steps; partial completion is an accepted outcome. The registry and layout
// cursors live only for this invocation. Concurrent invocations against the
// same store must be serialized by the caller.
func (e *Engine) ExecutePlan(ctx context.Context, plan *domain.InstructionPlan) error {
	if plan == nil || len(plan.Steps) == 0 {
		return domain.ErrEmptyPlan
	}

	executionID := uuid.NewString()

	registry := NewStepRegistry()
	plannedImages, plannedVideos := plannedNodeCounts(plan)
	layout := newAllocator(e.layoutParams, e.store.Viewport().Center(), plannedImages, plannedVideos)
	res := newResolver(e.store, registry)
	mat := newMaterializer(e.store, layout, res)
	del := newCascade(e.store)

	// Individual delete persistence calls are unawaited; only the plan as a
	// whole waits for them before returning.
	defer del.wait()

	log.Info().
		Str("execution_id", executionID).
		Int("steps", len(plan.Steps)).
		Int("planned_images", plannedImages).
		Int("planned_videos", plannedVideos).
		Msg("executing instruction plan")

	created := 0

	for i, step := range plan.Steps {
		switch s := step.(type) {
		case domain.CreateNodeStep:
			ids := e.handleCreate(ctx, s, layout, mat)
			registry.Set(s.ID, ids)
			created += len(ids)

		case domain.ConnectSequentiallyStep:
			e.handleConnect(ctx, s, registry, res)

		case domain.GroupNodesStep:
			// Recognized but unimplemented. Plans may carry it; the contract
			// is that it has no effect.
			log.Debug().Int("step_index", i).Msg("group step is a no-op")

		case domain.DeleteNodeStep:
			del.execute(ctx, s)

		default:
			log.Warn().Int("step_index", i).Msg("unhandled step variant, skipping")
		}
	}

	log.Info().
		Str("execution_id", executionID).
		Int("nodes_created", created).
		Msg("instruction plan finished")

	return nil
}

// handleCreate materializes the step's nodes one at a time, strictly
// sequentially: later slots in the same step may reference nodes created by
// earlier ones, so the per-slot persistence calls must not overlap.
func (e *Engine) handleCreate(ctx context.Context, step domain.CreateNodeStep, layout *allocator, mat *materializer) []string {
	count := effectiveCreateCount(step)

	if len(step.BatchConfigs) > count {
		log.Warn().
			Str("step_id", step.ID).
			Int("count", count).
			Int("batch_configs", len(step.BatchConfigs)).
			Msg("more batch configs than requested nodes, extra entries ignored")
	}

	if step.NodeType != domain.NodeKindImage && step.NodeType != domain.NodeKindVideo {
		defer layout.advanceFallbackColumn()
	}

	ids := make([]string, 0, count)

	for i := 0; i < count; i++ {
		batch := domain.BatchConfig{}
		if i < len(step.BatchConfigs) {
			batch = step.BatchConfigs[i]
		}

		id, err := mat.materialize(ctx, step.NodeType, step.ConfigTemplate, batch)
		if err != nil {
			log.Warn().
				Err(err).
				Str("step_id", step.ID).
				Int("slot", i).
				Msg("failed to materialize node")

			continue
		}

		ids = append(ids, id)
	}

	return ids
}

// handleConnect wires the nodes of one step to another's. Equal-length lists
// longer than one are chained with an index offset (from[i] feeds to[i+1]),
// which hands each clip off to the next segment's generator rather than
// pairing same indices. Unequal lists fan out by clamping the shorter side.
// A lone from-list self-chains.
func (e *Engine) handleConnect(ctx context.Context, step domain.ConnectSequentiallyStep, registry *StepRegistry, res *resolver) {
	fromIDs, fromOK := registry.Get(step.FromStepID)
	fromOK = fromOK && len(fromIDs) > 0

	var (
		toIDs []string
		toOK  bool
	)
	if step.ToStepID != "" {
		toIDs, toOK = registry.Get(step.ToStepID)
		toOK = toOK && len(toIDs) > 0
	}

	switch {
	case fromOK && toOK && len(fromIDs) == len(toIDs) && len(fromIDs) > 1:
		for i := 0; i+1 < len(toIDs); i++ {
			res.createConnection(ctx, fromIDs[i], toIDs[i+1], domain.ConnectionColorDefault, "")
		}

	case fromOK && toOK:
		n := len(fromIDs)
		if len(toIDs) > n {
			n = len(toIDs)
		}

		for i := 0; i < n; i++ {
			from := fromIDs[clampIndex(i, len(fromIDs))]
			to := toIDs[clampIndex(i, len(toIDs))]
			res.createConnection(ctx, from, to, domain.ConnectionColorDefault, "")
		}

	case fromOK && len(fromIDs) > 1:
		for i := 0; i+1 < len(fromIDs); i++ {
			res.createConnection(ctx, fromIDs[i], fromIDs[i+1], domain.ConnectionColorDefault, "")
		}

	default:
		log.Warn().
			Str("from_step_id", step.FromStepID).
			Str("to_step_id", step.ToStepID).
			Msg("connect step references unknown steps, skipping")
	}
}

func clampIndex(i, length int) int {
	if length == 0 {
		return 0
	}

	if i >= length {
		return length - 1
	}

	return i
}
