package auth

import (
	"context"

	"github.com/isdelr/task-manager-be/internal/models"
)

type contextKey string

const (
	userKey   = contextKey("user")
	claimsKey = contextKey("claims")
)

// WithUser attaches the authenticated user and its token claims to ctx.
func WithUser(ctx context.Context, user models.User, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, claimsKey, claims)
}

// UserFromContext returns the user set by the Guard.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// ClaimsFromContext returns the verified token claims set by the Guard.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
