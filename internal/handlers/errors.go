package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solestash/solestash/internal/repo"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// JSONRepoError maps a repo failure kind onto an HTTP status and sends
// the user-facing message for it. Constraint conflicts are 409, bad
// values 400, misses 404, everything else 500 (connectivity included;
// the client cannot fix those).
func JSONRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		JSONError(w, repo.Message(err), http.StatusNotFound)
	case errors.Is(err, repo.ErrConstraint):
		JSONError(w, repo.Message(err), http.StatusConflict)
	case errors.Is(err, repo.ErrData):
		JSONError(w, repo.Message(err), http.StatusBadRequest)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
