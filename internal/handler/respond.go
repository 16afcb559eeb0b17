package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/appfair/marketplace/internal/form"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondFieldErrors returns the field-scoped validation errors for
// re-display by the submission UI.
func respondFieldErrors(w http.ResponseWriter, errs form.Errors) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
