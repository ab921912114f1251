package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

const testSecret = "services-test-secret"

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close(context.Background()) })
	return st
}

func newTestTokens() *auth.TokenManager {
	return auth.NewTokenManager(testSecret, time.Hour)
}

func strPtr(s string) *string { return &s }

type notification struct {
	userID  string
	event   string
	payload interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(userID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: userID, event: event, payload: payload})
}

func (n *recordingNotifier) events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	events := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		events = append(events, s.event)
	}
	return events
}
