package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solestash/solestash/internal/middleware"
	"github.com/solestash/solestash/internal/repo"
)

// ==========================
// UserHandler
// ==========================

// UserHandler serves the account endpoints. There is no cross-user
// administration; a token only ever reaches its own account.
type UserHandler struct {
	Users *repo.UserRepo
	Shoes *repo.ShoeRepo
	Audit *repo.AuditRepo
}

// ==========================
// Get Own Account
// ==========================

// Me returns the authenticated account with its collection size.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	pairs, err := h.Shoes.CountByOwner(userID)
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"pairs": pairs,
	})
}

// ==========================
// Delete Own Account
// ==========================

// DeleteMe removes the account. The schema cascades the delete to every
// shoe the account owns; no application-level cleanup runs here.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	err := h.Users.Delete(userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONRepoError(w, err)
		return
	}

	// The user row is gone, so the entry carries no author; the username
	// in details keeps the trail readable.
	if h.Audit != nil {
		username, _ := middleware.GetUsername(r.Context())
		_ = h.Audit.LogAnonymous(r.Context(), "delete", "user", userID, username)
	}

	w.WriteHeader(http.StatusNoContent)
}
