package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/store"
)

const taskColumns = "id, user_id, title, description, deadline, created_at, updated_at"

// TaskStore persists tasks in the tasks table.
type TaskStore struct {
	db *sql.DB
}

// CreateTask inserts a task, assigning an id when none is set.
func (s *TaskStore) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.UserID, task.Title, task.Description, task.Deadline.UTC(), task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ListTasks returns every task owned by ownerID, oldest first.
func (s *TaskStore) ListTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at ASC, id ASC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies patch to the task matching (id, ownerID).
func (s *TaskStore) UpdateTask(ctx context.Context, ownerID, id string, patch models.TaskPatch, updatedAt time.Time) (models.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{updatedAt.UTC()}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, patch.Deadline.UTC())
	}
	args = append(args, id, ownerID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, store.ErrNotFound)
	}

	task, err := getOwnedTask(ctx, tx, ownerID, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return task, nil
}

// DeleteTask removes the task matching (id, ownerID) and returns it.
func (s *TaskStore) DeleteTask(ctx context.Context, ownerID, id string) (models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("delete task %s: %w", id, err)
	}
	defer tx.Rollback()

	task, err := getOwnedTask(ctx, tx, ownerID, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("delete task %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return models.Task{}, fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("delete task %s: %w", id, err)
	}
	return task, nil
}

func getOwnedTask(ctx context.Context, tx *sql.Tx, ownerID, id string) (models.Task, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?", id, ownerID)
	return scanTask(row)
}

func scanTask(row scanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Deadline, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, store.ErrNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}
