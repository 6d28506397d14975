// Package postgres persists canvas nodes and connections as rows, one table
// each, with the kind-specific payload stored as JSONB.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

type Store struct {
	db *pgxpool.Pool
}

func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(pool), nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// InitSchema creates the canvas tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS canvas_nodes (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			position_x DOUBLE PRECISION NOT NULL DEFAULT 0,
			position_y DOUBLE PRECISION NOT NULL DEFAULT 0,
			data       JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS canvas_connections (
			id         TEXT PRIMARY KEY,
			from_node  TEXT NOT NULL,
			to_node    TEXT NOT NULL,
			color      TEXT NOT NULL DEFAULT '',
			label      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	return nil
}

func (s *Store) CreateNode(ctx context.Context, snapshot domain.NodeSnapshot) error {
	data, err := json.Marshal(snapshot.Data)
	if err != nil {
		return fmt.Errorf("marshal node data: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO canvas_nodes (id, kind, position_x, position_y, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			position_x = EXCLUDED.position_x,
			position_y = EXCLUDED.position_y,
			data       = EXCLUDED.data
	`, snapshot.ID, string(snapshot.Kind), snapshot.Position.X, snapshot.Position.Y, data)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}

	return nil
}

// DeleteNode removes a node row. Deleting an id that is already gone is not
// an error; the deletion cascade may fire the same delete twice.
func (s *Store) DeleteNode(ctx context.Context, kind domain.NodeKind, id string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM canvas_nodes WHERE id = $1 AND kind = $2
	`, id, string(kind))
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}

	return nil
}

func (s *Store) CreateConnection(ctx context.Context, conn domain.Connection) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO canvas_connections (id, from_node, to_node, color, label)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, conn.ID, conn.From, conn.To, conn.Color, conn.Label)
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}

	return nil
}

func (s *Store) Close() {
	s.db.Close()
}
