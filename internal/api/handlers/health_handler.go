package handlers

import "net/http"

// Health reports that the process is serving requests.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
