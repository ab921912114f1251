// Package mongodb implements the store contracts on a MongoDB database.
package mongodb

import (
	"context"
	"fmt"

	"github.com/isdelr/task-manager-be/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	tasksCollection       = "tasks"
	revocationsCollection = "revoked_tokens"
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client      *mongo.Client
	users       *UserStore
	tasks       *TaskStore
	revocations *RevocationStore
}

// Open connects to uri, selects database dbName and ensures indexes exist.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := New(client.Database(dbName))
	s.client = client
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps a database handle. Callers own the client.
func New(db *mongo.Database) *Store {
	return &Store{
		users:       &UserStore{coll: db.Collection(usersCollection)},
		tasks:       &TaskStore{coll: db.Collection(tasksCollection)},
		revocations: &RevocationStore{coll: db.Collection(revocationsCollection)},
	}
}

func (s *Store) Users() store.UserStore             { return s.users }
func (s *Store) Tasks() store.TaskStore             { return s.tasks }
func (s *Store) Revocations() store.RevocationStore { return s.revocations }

// Close disconnects the client when the store opened it.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the uniqueness, lookup and TTL indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = s.tasks.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}

	_, err = s.revocations.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create revocation indexes: %w", err)
	}
	return nil
}

// objectID parses a hex id. Malformed ids cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", id, store.ErrNotFound)
	}
	return oid, nil
}
