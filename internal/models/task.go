package models

import "time"

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Deadline    time.Time `json:"deadline"`
	UserID      string    `json:"user"` // Owner, fixed at creation
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch carries the fields an update may change. Nil means "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
}
