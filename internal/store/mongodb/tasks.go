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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Deadline    time.Time          `bson:"deadline"`
	User        primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDoc) model() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Deadline:    d.Deadline,
		UserID:      d.User.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// TaskStore persists tasks in the tasks collection.
type TaskStore struct {
	coll *mongo.Collection
}

// CreateTask inserts a task owned by task.UserID.
func (s *TaskStore) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: invalid owner %q", task.UserID)
	}

	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline.UTC(),
		User:        owner,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return doc.model(), nil
}

// ListTasks returns every task owned by ownerID, oldest first.
func (s *TaskStore) ListTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks := []models.Task{}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return tasks, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for _, doc := range docs {
		tasks = append(tasks, doc.model())
	}
	return tasks, nil
}

// UpdateTask applies patch to the task matching (id, ownerID).
func (s *TaskStore) UpdateTask(ctx context.Context, ownerID, id string, patch models.TaskPatch, updatedAt time.Time) (models.Task, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return models.Task{}, err
	}

	set := bson.M{"updatedAt": updatedAt.UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Deadline != nil {
		set["deadline"] = patch.Deadline.UTC()
	}

	var doc taskDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, fmt.Errorf("update task %s: %w", id, store.ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return doc.model(), nil
}

// DeleteTask removes the task matching (id, ownerID) and returns it.
func (s *TaskStore) DeleteTask(ctx context.Context, ownerID, id string) (models.Task, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return models.Task{}, err
	}

	var doc taskDoc
	if err := s.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, fmt.Errorf("delete task %s: %w", id, store.ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("delete task %s: %w", id, err)
	}
	return doc.model(), nil
}

func ownedFilter(ownerID, id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "user": owner}, nil
}
