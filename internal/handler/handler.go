package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dundie/rewards-service/internal/auth"
	"github.com/dundie/rewards-service/internal/models"
	"github.com/dundie/rewards-service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc   *service.Service
	guard *auth.Guard
	log   *logrus.Logger
}

func NewHandler(svc *service.Service, guard *auth.Guard, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, guard: guard, log: log}
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// RequestPasswordReset handles a reset request. The response is the same
// generic acknowledgment whether or not the email is registered.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.RequestPasswordReset(req.Email); err != nil {
		h.log.Errorf("Password reset request failed: %v", err)
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy to HTTP statuses. Anything unrecognized
// is logged and surfaced as a generic server error.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, "already exists", http.StatusConflict)
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.Errorf("Internal error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
