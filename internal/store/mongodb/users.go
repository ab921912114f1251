package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserStore persists users in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

// CreateUser inserts a user. An empty ID gets a fresh ObjectID.
func (s *UserStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
	if user.ID != "" {
		oid, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			return models.User{}, fmt.Errorf("create user: invalid id %q", user.ID)
		}
		doc.ID = oid
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("create user %s: %w", user.Email, store.ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return doc.model(), nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.User{}, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetUserByEmail retrieves a single user by their email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// UpdatePasswordHash replaces the stored hash of a user.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password": hash, "updatedAt": updatedAt.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, store.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.model(), nil
}
