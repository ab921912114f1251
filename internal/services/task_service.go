package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
)

// Task event names published to a task owner's subscribers.
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Notifier delivers task events to the owner's live connections.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	Create(ctx context.Context, ownerID string, input TaskInput) (models.Task, error)
	ListAll(ctx context.Context, ownerID string) ([]models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, input TaskInput) (models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) (models.Task, error)
}

// TaskService provides owner-scoped task management.
type TaskService struct {
	tasks    store.TaskStore
	notifier Notifier
	now      func() time.Time
}

// NewTaskService creates a new TaskService. notifier may be nil.
func NewTaskService(tasks store.TaskStore, notifier Notifier) *TaskService {
	return &TaskService{
		tasks:    tasks,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create stores a new task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, input TaskInput) (models.Task, error) {
	if err := validationFailure(input.ValidateCreate()); err != nil {
		return models.Task{}, err
	}

	deadline, err := parseDeadline(*input.Deadline)
	if err != nil {
		return models.Task{}, err
	}

	now := s.now().UTC()
	task := models.Task{
		Title:     strings.TrimSpace(*input.Title),
		Deadline:  deadline,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	created, err := s.tasks.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	s.notify(ownerID, EventTaskCreated, created)
	return created, nil
}

// ListAll returns every task owned by ownerID.
func (s *TaskService) ListAll(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Update applies the present fields of input to the caller's task.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, input TaskInput) (models.Task, error) {
	if err := validationFailure(input.ValidateUpdate()); err != nil {
		return models.Task{}, err
	}

	var patch models.TaskPatch
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		patch.Title = &title
	}
	patch.Description = input.Description
	if input.Deadline != nil {
		deadline, err := parseDeadline(*input.Deadline)
		if err != nil {
			return models.Task{}, err
		}
		patch.Deadline = &deadline
	}

	task, err := s.tasks.UpdateTask(ctx, ownerID, taskID, patch, s.now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Task{}, ErrNotFoundOrForbidden
		}
		return models.Task{}, err
	}
	s.notify(ownerID, EventTaskUpdated, task)
	return task, nil
}

// Delete removes the caller's task and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (models.Task, error) {
	task, err := s.tasks.DeleteTask(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Task{}, ErrNotFoundOrForbidden
		}
		return models.Task{}, err
	}
	s.notify(ownerID, EventTaskDeleted, task)
	return task, nil
}

func (s *TaskService) notify(ownerID, event string, task models.Task) {
	if s.notifier != nil {
		s.notifier.Notify(ownerID, event, task)
	}
}
