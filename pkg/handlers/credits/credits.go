package credits

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/mapping"
	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/notify"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

const defaultTransactionLimit = 50

// CreditsHandler holds the dependencies for credit-ledger handlers.
type CreditsHandler struct {
	Ledger    storage.CreditLedger
	Publisher notify.Publisher
}

// NewCreditsHandler creates a new CreditsHandler.
func NewCreditsHandler(ledger storage.CreditLedger, publisher notify.Publisher) *CreditsHandler {
	return &CreditsHandler{Ledger: ledger, Publisher: publisher}
}

// GetBalance handles the logic for retrieving a user's credit balance.
// It is a pure read: no deduction, no side effects.
func (h *CreditsHandler) GetBalance(w http.ResponseWriter, r *http.Request, userId string) {
	balance, err := h.Ledger.GetBalance(r.Context(), userId)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve balance: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiBalance(userId, balance)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// TopUp handles the logic for crediting a user's balance.
func (h *CreditsHandler) TopUp(w http.ResponseWriter, r *http.Request, userId string) {
	var req api.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	amount, err := models.CreditsFromFloat(req.Amount)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid amount: %v", err), http.StatusBadRequest)
		return
	}

	ref := uuid.New().String()
	if req.Ref != nil {
		ref = *req.Ref
	}

	tx, err := h.Ledger.TopUp(r.Context(), userId, amount, pricing.ActionTopUp, ref)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidAmount):
			http.Error(w, "Amount must be positive", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			http.Error(w, fmt.Sprintf("Failed to top up: %v", err), http.StatusInternalServerError)
		}
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	apiTx := mapping.ToApiTransaction(tx)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiTx); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListTransactions handles the logic for retrieving a user's ledger history.
func (h *CreditsHandler) ListTransactions(w http.ResponseWriter, r *http.Request, userId string) {
	limit := int32(defaultTransactionLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	domainTxs, err := h.Ledger.ListTransactions(r.Context(), userId, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiTxs := make([]*api.CreditTransaction, len(domainTxs))
	for i, tx := range domainTxs {
		apiTxs[i] = mapping.ToApiTransaction(&tx)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiTxs); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// publishBalanceUpdate pushes the user's new balance to connected clients.
// Best effort: a failed push never fails the request.
func (h *CreditsHandler) publishBalanceUpdate(r *http.Request, userId string, tx *models.CreditTransaction) {
	if h.Publisher == nil {
		return
	}

	balance, err := h.Ledger.GetBalance(r.Context(), userId)
	if err != nil {
		slog.Error("failed to get balance for websocket message", "error", err)
		return
	}

	msg := notify.Message{
		Type: notify.MessageTypeBalanceUpdate,
		Payload: notify.BalanceUpdatePayload{
			UserID:        userId,
			TransactionID: tx.ID,
			Action:        tx.Action,
			Change:        tx.Amount,
			NewBalance:    balance,
		},
	}
	if err := h.Publisher.Publish(r.Context(), msg); err != nil {
		slog.Error("failed to publish websocket message", "error", err)
	}
}
