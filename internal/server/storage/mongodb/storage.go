package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

// Storage represents the MongoDB storage implementation.
type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
}

// New connects to MongoDB, verifies the connection and ensures the indexes
// the storage relies on (unique email, owner-scoped task lookups).
func New(ctx context.Context, uri, dbName string) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	s := &Storage{
		client: client,
		users:  db.Collection(usersCollection),
		tasks:  db.Collection(tasksCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return s, nil
}

// ensureIndexes creates the required indexes. CreateOne is idempotent for
// an identical existing index.
func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("tasks owner index: %w", err)
	}

	return nil
}

// Ping verifies the database connection, used by the health endpoint.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from the database.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
