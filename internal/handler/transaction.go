package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dundie/rewards-service/internal/middleware"
	"github.com/dundie/rewards-service/internal/models"
	"github.com/gorilla/mux"
)

// CreateTransaction appends a point transfer to the user named in the path.
// The sender is the acting principal; a superuser may transfer on behalf of
// another user via the "from" field.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	toUsername := mux.Vars(r)["username"]
	acting, ok := middleware.Principal(r.Context())
	if !ok {
		h.writeError(w, models.ErrUnauthorized)
		return
	}

	var req struct {
		Value int64  `json:"value"`
		From  string `json:"from"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	from := req.From
	if from == "" {
		from = acting.Username
	}
	if from != acting.Username && !acting.Superuser() {
		h.writeError(w, models.ErrForbidden)
		return
	}

	tx, err := h.svc.AddTransaction(from, toUsername, req.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns the ledger entries involving the user,
// oldest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	txs, err := h.svc.Transactions(username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	h.respondJSON(w, http.StatusOK, txs)
}
