package storage

import (
	"context"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// CreditLedger defines the deduction protocol and its read paths. Deduct and
// TopUp are the only operations that may change a credit balance, and every
// successful call leaves exactly one transaction record behind.
type CreditLedger interface {
	// GetBalance returns the user's current balance. Reads are never
	// authoritative for a subsequent spend; Deduct re-verifies.
	GetBalance(ctx context.Context, userID string) (models.Credits, error)

	// Deduct atomically verifies balance >= amount, decrements the balance
	// and appends a transaction record with Amount == -amount. The two
	// writes commit together or not at all. Returns ErrInvalidAmount for
	// amount <= 0, ErrUserNotFound for a missing user and
	// ErrInsufficientCredits when the balance cannot cover the amount; in
	// every failure case the balance is unchanged and nothing is recorded.
	Deduct(ctx context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error)

	// TopUp atomically increments the balance and appends a positive
	// transaction record. Same amount and atomicity rules as Deduct.
	TopUp(ctx context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error)

	// ListTransactions returns the user's most recent ledger entries,
	// newest first.
	ListTransactions(ctx context.Context, userID string, limit int32) ([]models.CreditTransaction, error)
}
