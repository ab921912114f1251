package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/rs/zerolog/log"
)

const msgTaskNotFound = "Task not found or not authorized."

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles the request to create a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload services.TaskInput
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := h.service.Create(r.Context(), user.ID, payload)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create task")
		respondError(w, http.StatusInternalServerError, "Failed to create the task.")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetAll handles the request to list the caller's tasks.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	tasks, err := h.service.ListAll(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to retrieve tasks")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve tasks.")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// Update handles the request to update one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	taskID := chi.URLParam(r, "taskId")

	var payload services.TaskInput
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := h.service.Update(r.Context(), user.ID, taskID, payload)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrNotFoundOrForbidden):
			respondError(w, http.StatusNotFound, msgTaskNotFound)
		default:
			log.Error().Err(err).Str("user_id", user.ID).Str("task_id", taskID).Msg("Failed to update task")
			respondError(w, http.StatusInternalServerError, "Failed to update the task.")
		}
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// Delete handles the request to delete one of the caller's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	taskID := chi.URLParam(r, "taskId")

	task, err := h.service.Delete(r.Context(), user.ID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrNotFoundOrForbidden) {
			respondError(w, http.StatusNotFound, msgTaskNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Str("task_id", taskID).Msg("Failed to delete task")
		respondError(w, http.StatusInternalServerError, "Failed to delete the task.")
		return
	}

	respondJSON(w, http.StatusOK, task)
}
