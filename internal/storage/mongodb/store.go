// Package mongodb persists canvas nodes and connections as documents.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frameflow-ai/frameflow/internal/domain"
)

const (
	nodesCollection       = "canvas_nodes"
	connectionsCollection = "canvas_connections"
)

// Store implements the domain.Persister interface using MongoDB
type Store struct {
	database *mongo.Database
}

// New creates a new MongoDB canvas store with the given database
func New(database *mongo.Database) *Store {
	store := &Store{
		database: database,
	}
	store.ensureIndexes()
	return store
}

// Connect dials MongoDB and returns a store bound to the named database.
func Connect(ctx context.Context, uri, databaseName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return New(client.Database(databaseName)), nil
}

// ensureIndexes creates necessary indexes for performance
func (s *Store) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nodes := s.database.Collection(nodesCollection)
	nodes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "kind", Value: 1}},
		},
	})

	connections := s.database.Collection(connectionsCollection)
	connections.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "from", Value: 1},
				{Key: "to", Value: 1},
			},
		},
	})
}

type nodeDocument struct {
	ID        string         `bson:"id"`
	Kind      string         `bson:"kind"`
	PositionX float64        `bson:"position_x"`
	PositionY float64        `bson:"position_y"`
	Data      map[string]any `bson:"data"`
	CreatedAt time.Time      `bson:"created_at"`
}

type connectionDocument struct {
	ID        string    `bson:"id"`
	From      string    `bson:"from"`
	To        string    `bson:"to"`
	Color     string    `bson:"color"`
	Label     string    `bson:"label"`
	CreatedAt time.Time `bson:"created_at"`
}

func (s *Store) CreateNode(ctx context.Context, snapshot domain.NodeSnapshot) error {
	doc := nodeDocument{
		ID:        snapshot.ID,
		Kind:      string(snapshot.Kind),
		PositionX: snapshot.Position.X,
		PositionY: snapshot.Position.Y,
		Data:      snapshot.Data,
		CreatedAt: time.Now(),
	}

	_, err := s.database.Collection(nodesCollection).UpdateOne(
		ctx,
		bson.M{"id": snapshot.ID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save node document: %w", err)
	}

	return nil
}

// DeleteNode removes a node document. A missing document is not an error;
// the deletion cascade may fire the same delete more than once.
func (s *Store) DeleteNode(ctx context.Context, kind domain.NodeKind, id string) error {
	_, err := s.database.Collection(nodesCollection).DeleteOne(ctx, bson.M{
		"id":   id,
		"kind": string(kind),
	})
	if err != nil {
		return fmt.Errorf("failed to delete node document: %w", err)
	}

	return nil
}

func (s *Store) CreateConnection(ctx context.Context, conn domain.Connection) error {
	doc := connectionDocument{
		ID:        conn.ID,
		From:      conn.From,
		To:        conn.To,
		Color:     conn.Color,
		Label:     conn.Label,
		CreatedAt: time.Now(),
	}

	_, err := s.database.Collection(connectionsCollection).UpdateOne(
		ctx,
		bson.M{"id": conn.ID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save connection document: %w", err)
	}

	return nil
}
