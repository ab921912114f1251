package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockTest(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func TestUserStore_CreateUser(t *testing.T) {
	mt := newMockTest(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	input := models.User{Username: "al", Email: "a@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}

	mt.Run("inserts document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := New(mt.DB).Users().CreateUser(context.Background(), input)
		require.NoError(mt, err)
		assert.Len(mt, user.ID, 24)
		assert.Equal(mt, "hash", user.PasswordHash)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		doc := evt.Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, "a@x.com", doc.Lookup("email").StringValue())
		assert.Equal(mt, "hash", doc.Lookup("password").StringValue())
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: email_1",
		}))

		_, err := New(mt.DB).Users().CreateUser(context.Background(), input)
		assert.ErrorIs(mt, err, store.ErrDuplicate)
	})
}

func TestUserStore_Lookups(t *testing.T) {
	mt := newMockTest(t)
	oid := primitive.NewObjectID()

	mt.Run("by email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "username", Value: "al"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: "hash"},
		}))

		user, err := New(mt.DB).Users().GetUserByEmail(context.Background(), "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, "a@x.com", evt.Command.Lookup("filter", "email").StringValue())
	})

	mt.Run("missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch))

		_, err := New(mt.DB).Users().GetUserByID(context.Background(), oid.Hex())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("malformed id skips the query", func(mt *mtest.T) {
		_, err := New(mt.DB).Users().GetUserByID(context.Background(), "user-1")
		assert.ErrorIs(mt, err, store.ErrNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestUserStore_UpdatePasswordHash(t *testing.T) {
	mt := newMockTest(t)
	oid := primitive.NewObjectID()

	mt.Run("updated", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}, bson.E{Key: "nModified", Value: int32(1)}))

		err := New(mt.DB).Users().UpdatePasswordHash(context.Background(), oid.Hex(), "new-hash", time.Now())
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		update := evt.Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.Equal(mt, oid, update.Lookup("q", "_id").ObjectID())
		assert.Equal(mt, "new-hash", update.Lookup("u", "$set", "password").StringValue())
	})

	mt.Run("no match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}))

		err := New(mt.DB).Users().UpdatePasswordHash(context.Background(), oid.Hex(), "new-hash", time.Now())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})
}
