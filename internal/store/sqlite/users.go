package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
)

const userColumns = "id, username, email, password_hash, created_at, updated_at"

// UserStore persists users in the users table.
type UserStore struct {
	db *sql.DB
}

// CreateUser inserts a user, assigning an id when none is set.
func (s *UserStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("create user %s: %w", user.Email, store.ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("user with ID %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("user with email %s: %w", email, err)
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored hash of a user.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		hash, updatedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user with ID %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func scanUser(row scanner) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, store.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
