package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	svc      *services.TaskService
	notifier *recordingNotifier
	alice    models.User
	bob      models.User
}

func newTaskFixture(t *testing.T) taskFixture {
	t.Helper()
	st := newTestStore(t)
	ctx := context.Background()

	createUser := func(username, email string) models.User {
		now := time.Now().UTC()
		user, err := st.Users().CreateUser(ctx, models.User{
			Username:     username,
			Email:        email,
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		require.NoError(t, err)
		return user
	}

	notifier := &recordingNotifier{}
	return taskFixture{
		svc:      services.NewTaskService(st.Tasks(), notifier),
		notifier: notifier,
		alice:    createUser("alice", "alice@x.com"),
		bob:      createUser("bob", "bob@x.com"),
	}
}

func TestTaskService_Create(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.svc.Create(context.Background(), f.alice.ID, services.TaskInput{
		Title:       strPtr("  T  "),
		Description: strPtr("details"),
		Deadline:    strPtr("2025-01-01"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "T", task.Title)
	assert.Equal(t, "details", task.Description)
	assert.Equal(t, f.alice.ID, task.UserID)
	assert.True(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Equal(task.Deadline))
	assert.False(t, task.CreatedAt.IsZero())

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.alice.ID, f.notifier.sent[0].userID)
	assert.Equal(t, services.EventTaskCreated, f.notifier.sent[0].event)
}

func TestTaskService_CreateRFC3339Deadline(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.svc.Create(context.Background(), f.alice.ID, services.TaskInput{
		Title:    strPtr("T"),
		Deadline: strPtr("2025-03-04T10:30:00+02:00"),
	})
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 4, 8, 30, 0, 0, time.UTC).Equal(task.Deadline))
	assert.Empty(t, task.Description)
}

func TestTaskService_CreateValidation(t *testing.T) {
	f := newTaskFixture(t)

	tests := []struct {
		name  string
		input services.TaskInput
	}{
		{"missing title", services.TaskInput{Deadline: strPtr("2025-01-01")}},
		{"blank title", services.TaskInput{Title: strPtr("   "), Deadline: strPtr("2025-01-01")}},
		{"missing deadline", services.TaskInput{Title: strPtr("T")}},
		{"malformed deadline", services.TaskInput{Title: strPtr("T"), Deadline: strPtr("next tuesday")}},
		{"empty deadline", services.TaskInput{Title: strPtr("T"), Deadline: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.alice.ID, tt.input)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
	assert.Empty(t, f.notifier.events())
}

func TestTaskService_ListAll(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	empty, err := f.svc.ListAll(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, title := range []string{"first", "second"} {
		_, err := f.svc.Create(ctx, f.alice.ID, services.TaskInput{Title: strPtr(title), Deadline: strPtr("2025-01-01")})
		require.NoError(t, err)
	}

	tasks, err := f.svc.ListAll(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, f.alice.ID, task.UserID)
	}

	others, err := f.svc.ListAll(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestTaskService_Update(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice.ID, services.TaskInput{
		Title:       strPtr("T"),
		Description: strPtr("before"),
		Deadline:    strPtr("2025-01-01"),
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.alice.ID, task.ID, services.TaskInput{Deadline: strPtr("2025-02-01")})
	require.NoError(t, err)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "before", updated.Description)
	assert.True(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Equal(updated.Deadline))

	updated, err = f.svc.Update(ctx, f.alice.ID, task.ID, services.TaskInput{Title: strPtr("T2"), Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Empty(t, updated.Description)

	assert.Equal(t, []string{services.EventTaskCreated, services.EventTaskUpdated, services.EventTaskUpdated}, f.notifier.events())
}

func TestTaskService_UpdateRejected(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice.ID, services.TaskInput{Title: strPtr("T"), Deadline: strPtr("2025-01-01")})
	require.NoError(t, err)

	tests := []struct {
		name    string
		ownerID string
		taskID  string
		input   services.TaskInput
		want    error
	}{
		{"foreign task", f.bob.ID, task.ID, services.TaskInput{Title: strPtr("mine now")}, services.ErrNotFoundOrForbidden},
		{"unknown task", f.alice.ID, "does-not-exist", services.TaskInput{Title: strPtr("x")}, services.ErrNotFoundOrForbidden},
		{"blank title", f.alice.ID, task.ID, services.TaskInput{Title: strPtr("  ")}, services.ErrValidation},
		{"malformed deadline", f.alice.ID, task.ID, services.TaskInput{Deadline: strPtr("soon")}, services.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Update(ctx, tt.ownerID, tt.taskID, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	tasks, err := f.svc.ListAll(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T", tasks[0].Title)
}

func TestTaskService_Delete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice.ID, services.TaskInput{Title: strPtr("T"), Deadline: strPtr("2025-01-01")})
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, f.bob.ID, task.ID)
	assert.ErrorIs(t, err, services.ErrNotFoundOrForbidden)

	deleted, err := f.svc.Delete(ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = f.svc.Delete(ctx, f.alice.ID, task.ID)
	assert.ErrorIs(t, err, services.ErrNotFoundOrForbidden)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []string{services.EventTaskCreated, services.EventTaskDeleted}, f.notifier.events())
}
