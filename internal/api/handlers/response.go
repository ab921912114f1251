package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/rs/zerolog/log"
)

const msgInvalidBody = "Invalid request body"

// respondJSON writes payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes {"error": message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondValidation writes {"errors": [...]} when err is a validation failure.
func respondValidation(w http.ResponseWriter, err error) bool {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
	return true
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
