package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

// cascade removes nodes across categories for a delete step. Durable delete
// calls are fired without being awaited individually: deleting a large
// selection should not serialize on storage round-trips. Wait() blocks until
// in-flight deletes finish, for graceful shutdown.
type cascade struct {
	store domain.CanvasStore
	wg    sync.WaitGroup
}

func newCascade(store domain.CanvasStore) *cascade {
	return &cascade{store: store}
}

func (c *cascade) execute(ctx context.Context, step domain.DeleteNodeStep) {
	removed := 0

	if c.categoryMatches(step, domain.DeleteTargetImage) {
		nodes := c.store.ImageNodes()
		kept := nodes[:0:0]
		for _, node := range nodes {
			if idMatches(step.TargetIDs, node.ID) {
				c.fireDelete(ctx, domain.NodeKindImage, node.ID)
				removed++
				continue
			}
			kept = append(kept, node)
		}
		c.store.SetImageNodes(kept)
	}

	if c.categoryMatches(step, domain.DeleteTargetVideo) {
		nodes := c.store.VideoNodes()
		kept := nodes[:0:0]
		for _, node := range nodes {
			if idMatches(step.TargetIDs, node.ID) {
				c.fireDelete(ctx, domain.NodeKindVideo, node.ID)
				removed++
				continue
			}
			kept = append(kept, node)
		}
		c.store.SetVideoNodes(kept)
	}

	if c.categoryMatches(step, domain.DeleteTargetMusic) {
		nodes := c.store.MusicNodes()
		kept := nodes[:0:0]
		for _, node := range nodes {
			if idMatches(step.TargetIDs, node.ID) {
				c.fireDelete(ctx, domain.NodeKindMusic, node.ID)
				removed++
				continue
			}
			kept = append(kept, node)
		}
		c.store.SetMusicNodes(kept)
	}

	if c.categoryMatches(step, domain.DeleteTargetText) {
		nodes := c.store.TextNodes()
		kept := nodes[:0:0]
		for _, node := range nodes {
			if idMatches(step.TargetIDs, node.ID) {
				c.fireDelete(ctx, domain.NodeKindText, node.ID)
				removed++
				continue
			}
			kept = append(kept, node)
		}
		c.store.SetTextNodes(kept)
	}

	if c.categoryMatches(step, domain.DeleteTargetPlugin) {
		nodes := c.store.PluginNodes()
		kept := nodes[:0:0]
		for _, node := range nodes {
			if c.pluginMatches(step, node) {
				c.fireDelete(ctx, domain.NodeKindPlugin, node.ID)
				removed++
				continue
			}
			kept = append(kept, node)
		}
		c.store.SetPluginNodes(kept)
	}

	if step.TargetType == domain.DeleteTargetAll && len(step.TargetIDs) == 0 {
		c.store.SetSelectedNodeIDs(nil)
	}

	log.Info().
		Str("target_type", string(step.TargetType)).
		Int("removed", removed).
		Msg("deletion cascade finished")
}

func (c *cascade) categoryMatches(step domain.DeleteNodeStep, category domain.DeleteTarget) bool {
	return step.TargetType == domain.DeleteTargetAll || step.TargetType == category
}

// pluginMatches additionally narrows plugin deletes to a subtype when the
// step names one.
func (c *cascade) pluginMatches(step domain.DeleteNodeStep, node domain.PluginNode) bool {
	if !idMatches(step.TargetIDs, node.ID) {
		return false
	}

	if step.TargetType == domain.DeleteTargetPlugin && step.PluginKind != "" {
		return node.PluginKind == step.PluginKind
	}

	return true
}

// idMatches reports whether a node id is covered by the step's target list.
// An empty list matches every node in the category.
func idMatches(targetIDs []string, id string) bool {
	if len(targetIDs) == 0 {
		return true
	}

	for _, targetID := range targetIDs {
		if targetID == id {
			return true
		}
	}

	return false
}

func (c *cascade) fireDelete(ctx context.Context, kind domain.NodeKind, id string) {
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.store.PersistNodeDelete(ctx, kind, id); err != nil {
			log.Error().Err(err).Str("node_id", id).Str("kind", string(kind)).Msg("failed to persist node delete")
		}
	}()
}

func (c *cascade) wait() {
	c.wg.Wait()
}
