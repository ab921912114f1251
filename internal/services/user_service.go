package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, input RegisterInput) (models.User, error)
	Login(ctx context.Context, input LoginInput) (string, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error
}

// UserService provides registration, login and credential management.
type UserService struct {
	users       store.UserStore
	revocations store.RevocationStore
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
	now         func() time.Time
}

// NewUserService creates a new UserService. When revocations is nil, Logout
// does not invalidate tokens.
func NewUserService(users store.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, revocations store.RevocationStore) *UserService {
	return &UserService{
		users:       users,
		revocations: revocations,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
	}
}

// Register creates a new user, hashing their password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if err := validationFailure(input.Validate()); err != nil {
		return models.User{}, err
	}

	_, err := s.users.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return models.User{}, ErrAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("look up email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user, err := s.users.CreateUser(ctx, models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.User{}, ErrAlreadyExists
		}
		return models.User{}, err
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	user.PasswordHash = ""
	return user, nil
}

// Login verifies a user's credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, input LoginInput) (string, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validationFailure(input.Validate()); err != nil {
		return "", err
	}

	user, err := s.users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("look up email: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout revokes the presented token when a revocation store is configured.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revocations == nil || claims == nil {
		return nil
	}
	expiresAt := s.now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revocations.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return err
	}
	log.Info().Str("user_id", claims.UserID).Str("token_id", claims.ID).Msg("Token revoked")
	return nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
// A missing user matches both ErrUserNotFound and store.ErrNotFound.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ChangePassword verifies the current password, then hashes and stores the new one.
func (s *UserService) ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error {
	if err := validationFailure(input.Validate()); err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, id, hash, s.now().UTC())
}
