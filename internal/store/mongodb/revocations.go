package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RevocationStore keeps revoked token ids. A TTL index on expiresAt lets
// MongoDB drop entries on its own; PurgeExpired is still honoured.
type RevocationStore struct {
	coll *mongo.Collection
}

// Revoke records tokenID as revoked until expiresAt.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": tokenID},
		bson.M{"$setOnInsert": bson.M{"expiresAt": expiresAt.UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": tokenID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// PurgeExpired deletes entries whose tokens have expired by now.
func (s *RevocationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return res.DeletedCount, nil
}
