package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/rs/zerolog/log"
)

// Rejection messages returned by the Guard, in the order the checks run.
const (
	MsgNoToken       = "Access denied. No token provided."
	MsgNotBearer     = "Invalid token. Token must be of the Bearer type."
	MsgTokenExpired  = "Token expired."
	MsgInvalidToken  = "Invalid token."
	MsgUserNotFound  = "Invalid token. User not found."
	msgInternalError = "Internal server error"
)

// UserResolver looks up the owner of a verified token. A missing user must be
// reported with an error wrapping store.ErrNotFound.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Guard protects routes with bearer token authentication.
type Guard struct {
	tokens      *TokenManager
	users       UserResolver
	revocations RevocationChecker
}

// NewGuard creates a Guard. revocations may be nil when logout does not revoke.
func NewGuard(tokens *TokenManager, users UserResolver, revocations RevocationChecker) *Guard {
	return &Guard{tokens: tokens, users: users, revocations: revocations}
}

// Middleware rejects requests without a valid bearer token and otherwise
// attaches the resolved user to the request context.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, MsgNoToken)
			return
		}

		scheme, tokenStr, _ := strings.Cut(header, " ")
		if scheme != "Bearer" {
			writeError(w, http.StatusUnauthorized, MsgNotBearer)
			return
		}
		// Only the second space-delimited field is the token.
		tokenStr, _, _ = strings.Cut(tokenStr, " ")

		claims, err := g.tokens.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, MsgTokenExpired)
				return
			}
			writeError(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}

		if g.revocations != nil {
			revoked, err := g.revocations.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Str("token_id", claims.ID).Msg("Failed to check token revocation")
				writeError(w, http.StatusInternalServerError, msgInternalError)
				return
			}
			if revoked {
				writeError(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}
		}

		user, err := g.users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, MsgUserNotFound)
				return
			}
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to resolve token user")
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, claims)))
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
