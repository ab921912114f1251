package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterInput
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrAlreadyExists):
			respondError(w, http.StatusBadRequest, "User already exists")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			respondError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload services.LoginInput
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, err := h.service.Login(r.Context(), payload)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "Invalid password")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to log in")
			respondError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout acknowledges a logout and revokes the token when configured to.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	if err := h.service.Logout(r.Context(), claims); err != nil {
		log.Error().Err(err).Msg("Failed to log out")
		respondError(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from context")
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	user.PasswordHash = ""
	respondJSON(w, http.StatusOK, user)
}

// ChangePassword handles changing the authenticated user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload services.ChangePasswordInput
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.service.ChangePassword(r.Context(), user.ID, payload); err != nil {
		if respondValidation(w, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid password")
		default:
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to change password")
			respondError(w, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
