// Package reports exposes the charged ledger-report endpoint.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/guard"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// reportTransactionLimit caps how much ledger history a report covers.
const reportTransactionLimit = 1000

// ReportsHandler holds the dependencies for report handlers.
type ReportsHandler struct {
	Ledger storage.CreditLedger
	Guard  *guard.Guard
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(ledger storage.CreditLedger, g *guard.Guard) *ReportsHandler {
	return &ReportsHandler{Ledger: ledger, Guard: g}
}

// GenerateReport handles the guarded generation of a ledger summary. The
// report is assembled before the charge, so the charge itself is not part of
// the reported totals; generating writes nothing, so the guard's mutation is
// a no-op and compensation always succeeds.
func (h *ReportsHandler) GenerateReport(w http.ResponseWriter, r *http.Request, userId string) {
	balance, err := h.Ledger.GetBalance(r.Context(), userId)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve balance: %v", err), http.StatusInternalServerError)
		}
		return
	}

	txs, err := h.Ledger.ListTransactions(r.Context(), userId, reportTransactionLimit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	report := &api.CreditReport{
		UserId:           userId,
		GeneratedAt:      time.Now().UTC(),
		Balance:          balance.Float64(),
		SpentByAction:    make(map[string]float64),
		TransactionCount: len(txs),
	}
	for _, tx := range txs {
		if tx.Amount < 0 {
			spent := (-tx.Amount).Float64()
			report.TotalSpent += spent
			report.SpentByAction[tx.Action] += spent
		} else {
			report.TotalToppedUp += tx.Amount.Float64()
		}
	}

	reportID := uuid.New().String()
	_, _, err = h.Guard.Do(r.Context(), userId, pricing.GenerateReport, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			return reportID, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return nil
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInsufficientCredits):
			http.Error(w, "Insufficient credits", http.StatusUnprocessableEntity)
		case errors.Is(err, storage.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
