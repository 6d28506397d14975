package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameflow-ai/frameflow/internal/canvas"
	"github.com/frameflow-ai/frameflow/internal/domain"
)

type fakePersister struct {
	mu          sync.Mutex
	nodeCreates int
	nodeDeletes int
	connCreates int

	failNodeCreates bool
}

func (p *fakePersister) CreateNode(ctx context.Context, snapshot domain.NodeSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nodeCreates++

	if p.failNodeCreates {
		return errors.New("storage unavailable")
	}

	return nil
}

func (p *fakePersister) DeleteNode(ctx context.Context, kind domain.NodeKind, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nodeDeletes++

	return nil
}

func (p *fakePersister) CreateConnection(ctx context.Context, conn domain.Connection) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.connCreates++

	return nil
}

func (p *fakePersister) counts() (nodeCreates, nodeDeletes, connCreates int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.nodeCreates, p.nodeDeletes, p.connCreates
}

func TestExecutePlan_EmptyPlan(t *testing.T) {
	eng := New(canvas.New())

	err := eng.ExecutePlan(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrEmptyPlan)

	err = eng.ExecutePlan(context.Background(), &domain.InstructionPlan{})
	require.ErrorIs(t, err, domain.ErrEmptyPlan)
}

func TestExecutePlan_CreateNodeCount(t *testing.T) {
	tests := []struct {
		name         string
		count        int
		batchConfigs []domain.BatchConfig
		wantNodes    int
	}{
		{
			name:      "count without batch configs",
			count:     3,
			wantNodes: 3,
		},
		{
			name:  "more batch configs than count",
			count: 2,
			batchConfigs: []domain.BatchConfig{
				{Prompt: "a"}, {Prompt: "b"}, {Prompt: "c"}, {Prompt: "d"},
			},
			wantNodes: 2,
		},
		{
			name:  "fewer batch configs than count",
			count: 4,
			batchConfigs: []domain.BatchConfig{
				{Prompt: "a"},
			},
			wantNodes: 4,
		},
		{
			name:  "count falls back to batch config length",
			count: 0,
			batchConfigs: []domain.BatchConfig{
				{Prompt: "a"}, {Prompt: "b"},
			},
			wantNodes: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := canvas.New()
			eng := New(store)

			plan := &domain.InstructionPlan{
				Steps: []domain.Step{
					domain.CreateNodeStep{
						ID:             "step-1",
						NodeType:       domain.NodeKindImage,
						Count:          tt.count,
						ConfigTemplate: domain.NodeConfig{Prompt: "template"},
						BatchConfigs:   tt.batchConfigs,
					},
				},
			}

			require.NoError(t, eng.ExecutePlan(context.Background(), plan))
			require.Len(t, store.ImageNodes(), tt.wantNodes)
		})
	}
}

func TestExecutePlan_BatchConfigOverrides(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{
				ID:             "step-1",
				NodeType:       domain.NodeKindImage,
				Count:          3,
				ConfigTemplate: domain.NodeConfig{Prompt: "template prompt"},
				BatchConfigs: []domain.BatchConfig{
					{Prompt: "first"},
					{Prompt: "second"},
				},
			},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	nodes := store.ImageNodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "first", nodes[0].Prompt)
	assert.Equal(t, "second", nodes[1].Prompt)
	assert.Equal(t, "template prompt", nodes[2].Prompt)
}

func TestExecutePlan_ConnectSequentiallyChainedHandoff(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "from", NodeType: domain.NodeKindVideo, Count: 3},
			domain.CreateNodeStep{ID: "to", NodeType: domain.NodeKindVideo, Count: 3},
			domain.ConnectSequentiallyStep{FromStepID: "from", ToStepID: "to"},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	videos := store.VideoNodes()
	require.Len(t, videos, 6)

	fromIDs := []string{videos[0].ID, videos[1].ID, videos[2].ID}
	toIDs := []string{videos[3].ID, videos[4].ID, videos[5].ID}

	conns := store.Connections()
	require.Len(t, conns, 2)

	// from[i] feeds to[i+1]; the last from-node hands off to nothing.
	assert.Equal(t, fromIDs[0], conns[0].From)
	assert.Equal(t, toIDs[1], conns[0].To)
	assert.Equal(t, fromIDs[1], conns[1].From)
	assert.Equal(t, toIDs[2], conns[1].To)

	for _, conn := range conns {
		assert.NotEqual(t, fromIDs[2], conn.From)
	}
}

func TestExecutePlan_ConnectSequentiallyFanOut(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "one", NodeType: domain.NodeKindImage, Count: 1},
			domain.CreateNodeStep{ID: "many", NodeType: domain.NodeKindVideo, Count: 3},
			domain.ConnectSequentiallyStep{FromStepID: "one", ToStepID: "many"},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	image := store.ImageNodes()[0]
	videos := store.VideoNodes()

	conns := store.Connections()
	require.Len(t, conns, 3)

	for i, conn := range conns {
		assert.Equal(t, image.ID, conn.From)
		assert.Equal(t, videos[i].ID, conn.To)
	}
}

func TestExecutePlan_ConnectSequentiallySelfChain(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "clips", NodeType: domain.NodeKindVideo, Count: 4},
			domain.ConnectSequentiallyStep{FromStepID: "clips"},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	videos := store.VideoNodes()
	conns := store.Connections()
	require.Len(t, conns, 3)

	for i, conn := range conns {
		assert.Equal(t, videos[i].ID, conn.From)
		assert.Equal(t, videos[i+1].ID, conn.To)
	}
}

func TestExecutePlan_ConnectSequentiallyUnknownStepsSkipped(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.ConnectSequentiallyStep{FromStepID: "missing", ToStepID: "also-missing"},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))
	assert.Empty(t, store.Connections())
}

func TestExecutePlan_DuplicateConnectStepCreatesOneEdgeSet(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "clips", NodeType: domain.NodeKindVideo, Count: 3},
			domain.ConnectSequentiallyStep{FromStepID: "clips"},
			domain.ConnectSequentiallyStep{FromStepID: "clips"},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))
	assert.Len(t, store.Connections(), 2)
}

func TestExecutePlan_GroupStepIsNoOp(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.GroupNodesStep{},
			domain.CreateNodeStep{ID: "imgs", NodeType: domain.NodeKindImage, Count: 1},
			domain.GroupNodesStep{},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))
	assert.Len(t, store.ImageNodes(), 1)
	assert.Empty(t, store.Connections())
}

func TestExecutePlan_PersistenceFailureDoesNotRollBack(t *testing.T) {
	persister := &fakePersister{failNodeCreates: true}
	store := canvas.New(canvas.WithPersister(persister))
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "imgs", NodeType: domain.NodeKindImage, Count: 2},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	// The nodes stay visible in memory even though the durable writes failed.
	assert.Len(t, store.ImageNodes(), 2)

	creates, _, _ := persister.counts()
	assert.Equal(t, 2, creates)
}

func TestExecutePlan_DeleteAllThenRepeat(t *testing.T) {
	persister := &fakePersister{}
	store := canvas.New(canvas.WithPersister(persister))
	store.SetSelectedNodeIDs([]string{"some-node"})
	eng := New(store)

	seed := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "imgs", NodeType: domain.NodeKindImage, Count: 2},
			domain.CreateNodeStep{ID: "vids", NodeType: domain.NodeKindVideo, Count: 2},
			domain.CreateNodeStep{ID: "tunes", NodeType: domain.NodeKindMusic, Count: 1},
			domain.CreateNodeStep{ID: "notes", NodeType: domain.NodeKindText, Count: 1},
		},
	}
	require.NoError(t, eng.ExecutePlan(context.Background(), seed))

	deleteAll := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.DeleteNodeStep{TargetType: domain.DeleteTargetAll},
		},
	}
	require.NoError(t, eng.ExecutePlan(context.Background(), deleteAll))

	assert.Empty(t, store.ImageNodes())
	assert.Empty(t, store.VideoNodes())
	assert.Empty(t, store.MusicNodes())
	assert.Empty(t, store.TextNodes())
	assert.Empty(t, store.PluginNodes())
	assert.Empty(t, store.SelectedNodeIDs())

	_, deletes, _ := persister.counts()
	assert.Equal(t, 6, deletes)

	// A second delete-all finds nothing and issues zero persistence calls.
	require.NoError(t, eng.ExecutePlan(context.Background(), deleteAll))

	_, deletesAfter, _ := persister.counts()
	assert.Equal(t, deletes, deletesAfter)
}

func TestExecutePlan_DeleteByTypeAndIDs(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	seed := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{ID: "imgs", NodeType: domain.NodeKindImage, Count: 3},
			domain.CreateNodeStep{ID: "vids", NodeType: domain.NodeKindVideo, Count: 2},
		},
	}
	require.NoError(t, eng.ExecutePlan(context.Background(), seed))

	target := store.ImageNodes()[1].ID

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.DeleteNodeStep{TargetType: domain.DeleteTargetImage, TargetIDs: []string{target}},
		},
	}
	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	require.Len(t, store.ImageNodes(), 2)
	for _, node := range store.ImageNodes() {
		assert.NotEqual(t, target, node.ID)
	}
	assert.Len(t, store.VideoNodes(), 2)
}

func TestExecutePlan_DeletePluginBySubtype(t *testing.T) {
	store := canvas.New()
	store.AddPluginNode(domain.PluginNode{ID: "p1", PluginKind: domain.PluginKindUpscale})
	store.AddPluginNode(domain.PluginNode{ID: "p2", PluginKind: domain.PluginKindErase})
	store.AddPluginNode(domain.PluginNode{ID: "p3", PluginKind: domain.PluginKindUpscale})
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.DeleteNodeStep{TargetType: domain.DeleteTargetPlugin, PluginKind: domain.PluginKindUpscale},
		},
	}
	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	nodes := store.PluginNodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "p2", nodes[0].ID)
}

func TestExecutePlan_PluginWithoutSourceIsSkipped(t *testing.T) {
	store := canvas.New()
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{
				ID:             "plugins",
				NodeType:       domain.NodeKindPlugin,
				Count:          1,
				ConfigTemplate: domain.NodeConfig{PluginKind: domain.PluginKindErase},
			},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))
	assert.Empty(t, store.PluginNodes())
}

func TestExecutePlan_PluginUsesSelectionAsSource(t *testing.T) {
	store := canvas.New()
	store.AddImageNode(domain.ImageNode{ID: "img-src"})
	store.SetSelectedNodeIDs([]string{"img-src"})
	eng := New(store)

	plan := &domain.InstructionPlan{
		Steps: []domain.Step{
			domain.CreateNodeStep{
				ID:             "plugins",
				NodeType:       domain.NodeKindPlugin,
				Count:          1,
				ConfigTemplate: domain.NodeConfig{PluginKind: domain.PluginKindUpscale},
			},
		},
	}

	require.NoError(t, eng.ExecutePlan(context.Background(), plan))

	nodes := store.PluginNodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "img-src", nodes[0].SourceNodeID)

	conns := store.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, "img-src", conns[0].From)
	assert.Equal(t, nodes[0].ID, conns[0].To)
}
