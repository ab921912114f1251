// Package store defines the persistence contracts for users, tasks and
// revoked tokens. Implementations live in the sqlite and mongodb subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the filter.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore persists user accounts. Username and email are unique.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error
}

// TaskStore persists tasks. Every read and write is filtered by owner.
type TaskStore interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	ListTasks(ctx context.Context, ownerID string) ([]models.Task, error)
	UpdateTask(ctx context.Context, ownerID, id string, patch models.TaskPatch, updatedAt time.Time) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, id string) (models.Task, error)
}

// RevocationStore records revoked token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Store bundles the stores a backend provides.
type Store interface {
	Users() UserStore
	Tasks() TaskStore
	Revocations() RevocationStore
	Close(ctx context.Context) error
}
