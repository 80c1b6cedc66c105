package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dundie/rewards-service/internal/middleware"
	"github.com/dundie/rewards-service/internal/service"
	"github.com/gorilla/mux"
)

// ListUsers handles user listing. ?include_balance=true attaches each user's
// computed balance to the response.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	includeBalance := r.URL.Query().Get("include_balance") == "true"

	views, err := h.svc.ListUsers(includeBalance)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, views)
}

// GetUser handles fetching a single user by username
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	view, err := h.svc.GetUser(username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// CreateUser handles admin-only user provisioning
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	acting, _ := middleware.Principal(r.Context())
	if err := h.guard.RequireSuperuser(acting); err != nil {
		h.writeError(w, err)
		return
	}

	var draft service.CreateUserDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.svc.CreateUser(draft)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, user.View())
}

// PatchProfile handles avatar/bio updates for self or, by a superuser, anyone
func (h *Handler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	acting, _ := middleware.Principal(r.Context())
	if err := h.guard.CanUpdateProfile(acting, username); err != nil {
		h.writeError(w, err)
		return
	}

	var patch service.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.svc.PatchProfile(username, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user.View())
}

// ChangePassword handles both entry points of a password change: a session
// Bearer token (self or superuser) or a password-reset token presented as the
// pwd_reset_token query parameter. The guard decision is the same either way.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	if resetToken := r.URL.Query().Get("pwd_reset_token"); resetToken != "" {
		if err := h.guard.CanResetPassword(resetToken, username); err != nil {
			h.writeError(w, err)
			return
		}
	} else {
		acting, err := h.guard.AuthenticatedUser(middleware.BearerToken(r))
		if err != nil {
			h.writeError(w, err)
			return
		}
		if err := h.guard.CanChangeUserPassword(acting, username); err != nil {
			h.writeError(w, err)
			return
		}
	}

	var req struct {
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.svc.ChangePassword(username, req.Password, req.PasswordConfirm)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user.View())
}
