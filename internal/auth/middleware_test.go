package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	if id == "broken" {
		return models.User{}, errors.New("connection reset")
	}
	user, ok := f[id]
	if !ok {
		return models.User{}, fmt.Errorf("user with ID %s: %w", id, store.ErrNotFound)
	}
	return user, nil
}

type fakeRevocations map[string]bool

func (f fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return f[tokenID], nil
}

func TestGuard_Middleware(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	expiredIssuer := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	users := fakeUsers{"user-1": {ID: "user-1", Username: "al"}}

	mustIssue := func(m *auth.TokenManager, userID string) (string, *auth.Claims) {
		s, c, err := m.Issue(userID)
		require.NoError(t, err)
		return s, c
	}

	valid, _ := mustIssue(tokens, "user-1")
	revoked, revokedClaims := mustIssue(tokens, "user-1")
	expired, _ := mustIssue(expiredIssuer, "user-1")
	expiredUnknown, _ := mustIssue(expiredIssuer, "ghost")
	unknown, _ := mustIssue(tokens, "ghost")
	broken, _ := mustIssue(tokens, "broken")

	guard := auth.NewGuard(tokens, users, fakeRevocations{revokedClaims.ID: true})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "Missing header", header: "", wantStatus: http.StatusUnauthorized, wantError: auth.MsgNoToken},
		{name: "Basic scheme", header: "Basic xyz", wantStatus: http.StatusUnauthorized, wantError: auth.MsgNotBearer},
		{name: "Lowercase bearer", header: "bearer " + valid, wantStatus: http.StatusUnauthorized, wantError: auth.MsgNotBearer},
		{name: "Valid token with wrong scheme", header: "Token " + valid, wantStatus: http.StatusUnauthorized, wantError: auth.MsgNotBearer},
		{name: "Bearer without token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantError: auth.MsgInvalidToken},
		{name: "Double space", header: "Bearer  " + valid, wantStatus: http.StatusUnauthorized, wantError: auth.MsgInvalidToken},
		{name: "Garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantError: auth.MsgInvalidToken},
		{name: "Expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantError: auth.MsgTokenExpired},
		{name: "Expiry checked before user", header: "Bearer " + expiredUnknown, wantStatus: http.StatusUnauthorized, wantError: auth.MsgTokenExpired},
		{name: "Revoked token", header: "Bearer " + revoked, wantStatus: http.StatusUnauthorized, wantError: auth.MsgInvalidToken},
		{name: "Unknown user", header: "Bearer " + unknown, wantStatus: http.StatusUnauthorized, wantError: auth.MsgUserNotFound},
		{name: "User lookup failure", header: "Bearer " + broken, wantStatus: http.StatusInternalServerError, wantError: "Internal server error"},
		{name: "Valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				user, ok := auth.UserFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, "user-1", user.ID)
				claims, ok := auth.ClaimsFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, "user-1", claims.UserID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks/all", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			guard.Middleware(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError == "" {
				assert.True(t, reached)
				return
			}
			assert.False(t, reached)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestGuard_WithoutRevocations(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	guard := auth.NewGuard(tokens, fakeUsers{"user-1": {ID: "user-1"}}, nil)
	signed, _, err := tokens.Issue("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestContextHelpers_Empty(t *testing.T) {
	_, ok := auth.UserFromContext(context.Background())
	assert.False(t, ok)
	_, ok = auth.ClaimsFromContext(context.Background())
	assert.False(t, ok)
}
