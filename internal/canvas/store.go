// Package canvas provides the reference in-memory implementation of the
// canvas-state collaborator. The UI layer owns an equivalent store; this one
// backs the CLI and tests.
package canvas

import (
	"context"
	"sync"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	imageNodes  []domain.ImageNode
	videoNodes  []domain.VideoNode
	musicNodes  []domain.MusicNode
	textNodes   []domain.TextNode
	pluginNodes []domain.PluginNode

	connections []domain.Connection
	selected    []string
	viewport    domain.Viewport

	persister domain.Persister
}

type Option func(*Store)

// WithPersister attaches a durable storage backend. Without one, persistence
// calls succeed as no-ops.
func WithPersister(p domain.Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

func WithViewport(v domain.Viewport) Option {
	return func(s *Store) {
		s.viewport = v
	}
}

func New(opts ...Option) *Store {
	store := &Store{
		viewport: domain.Viewport{Width: 1920, Height: 1080, Scale: 1},
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) ImageNodes() []domain.ImageNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]domain.ImageNode, len(s.imageNodes))
	copy(nodes, s.imageNodes)

	return nodes
}

func (s *Store) AddImageNode(node domain.ImageNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.imageNodes = append(s.imageNodes, node)
}

func (s *Store) SetImageNodes(nodes []domain.ImageNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.imageNodes = nodes
}

func (s *Store) UpdateImageNode(id string, update func(*domain.ImageNode)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.imageNodes {
		if s.imageNodes[i].ID == id {
			update(&s.imageNodes[i])
			return true
		}
	}

	return false
}

func (s *Store) VideoNodes() []domain.VideoNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]domain.VideoNode, len(s.videoNodes))
	copy(nodes, s.videoNodes)

	return nodes
}

func (s *Store) AddVideoNode(node domain.VideoNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.videoNodes = append(s.videoNodes, node)
}

func (s *Store) SetVideoNodes(nodes []domain.VideoNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.videoNodes = nodes
}

func (s *Store) UpdateVideoNode(id string, update func(*domain.VideoNode)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.videoNodes {
		if s.videoNodes[i].ID == id {
			update(&s.videoNodes[i])
			return true
		}
	}

	return false
}

func (s *Store) MusicNodes() []domain.MusicNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]domain.MusicNode, len(s.musicNodes))
	copy(nodes, s.musicNodes)

	return nodes
}

func (s *Store) AddMusicNode(node domain.MusicNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.musicNodes = append(s.musicNodes, node)
}

func (s *Store) SetMusicNodes(nodes []domain.MusicNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.musicNodes = nodes
}

func (s *Store) TextNodes() []domain.TextNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]domain.TextNode, len(s.textNodes))
	copy(nodes, s.textNodes)

	return nodes
}

func (s *Store) AddTextNode(node domain.TextNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.textNodes = append(s.textNodes, node)
}

func (s *Store) SetTextNodes(nodes []domain.TextNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.textNodes = nodes
}

func (s *Store) PluginNodes() []domain.PluginNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]domain.PluginNode, len(s.pluginNodes))
	copy(nodes, s.pluginNodes)

	return nodes
}

func (s *Store) AddPluginNode(node domain.PluginNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pluginNodes = append(s.pluginNodes, node)
}

func (s *Store) SetPluginNodes(nodes []domain.PluginNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pluginNodes = nodes
}

func (s *Store) Connections() []domain.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := make([]domain.Connection, len(s.connections))
	copy(conns, s.connections)

	return conns
}

func (s *Store) AddConnection(conn domain.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connections = append(s.connections, conn)
}

func (s *Store) SelectedNodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.selected))
	copy(ids, s.selected)

	return ids
}

func (s *Store) SetSelectedNodeIDs(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = ids
}

func (s *Store) Viewport() domain.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.viewport
}

func (s *Store) PersistImageNodeCreate(ctx context.Context, node domain.ImageNode) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.CreateNode(ctx, domain.SnapshotImageNode(node))
}

func (s *Store) PersistVideoNodeCreate(ctx context.Context, node domain.VideoNode) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.CreateNode(ctx, domain.SnapshotVideoNode(node))
}

func (s *Store) PersistMusicNodeCreate(ctx context.Context, node domain.MusicNode) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.CreateNode(ctx, domain.SnapshotMusicNode(node))
}

func (s *Store) PersistTextNodeCreate(ctx context.Context, node domain.TextNode) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.CreateNode(ctx, domain.SnapshotTextNode(node))
}

func (s *Store) PersistPluginNodeCreate(ctx context.Context, node domain.PluginNode) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.CreateNode(ctx, domain.SnapshotPluginNode(node))
}

func (s *Store) PersistConnectionCreate(ctx context.Context, conn domain.Connection) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.CreateConnection(ctx, conn)
}

func (s *Store) PersistNodeDelete(ctx context.Context, kind domain.NodeKind, id string) error {
	if s.persister == nil {
		return nil
	}

	return s.persister.DeleteNode(ctx, kind, id)
}
