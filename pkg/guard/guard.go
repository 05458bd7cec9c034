// Package guard wraps credit-costed business operations with the
// deduct-on-success protocol: the business mutation is applied first,
// then the credits are deducted, and if the deduction fails the
// mutation is compensated so that no user is charged for work that
// did not complete and no work survives that was not paid for.
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/reconcile"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// ErrCompensationFailed indicates that a credit deduction failed and the
// attempt to undo the already-applied business mutation also failed. The
// system is left inconsistent for that entity and requires manual
// reconciliation; an incident is recorded before this error is returned.
var ErrCompensationFailed = errors.New("compensation failed")

// Mutation describes a reversible business operation. Apply performs the
// mutation and returns a reference to the affected entity (a list ID, an
// item ID). Compensate undoes it: delete what Apply inserted, or restore
// the snapshot Apply replaced.
type Mutation struct {
	Apply      func(ctx context.Context) (ref string, err error)
	Compensate func(ctx context.Context, ref string) error
}

// Guard executes costed operations against a credit ledger.
type Guard struct {
	users    storage.UserStore
	ledger   storage.CreditLedger
	costs    pricing.Table
	reporter reconcile.Reporter
	logger   *slog.Logger
}

// New creates a Guard. A nil reporter disables incident reporting and a
// nil logger falls back to slog.Default.
func New(users storage.UserStore, ledger storage.CreditLedger, costs pricing.Table, reporter reconcile.Reporter, logger *slog.Logger) *Guard {
	if reporter == nil {
		reporter = &reconcile.NoOpReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		users:    users,
		ledger:   ledger,
		costs:    costs,
		reporter: reporter,
		logger:   logger,
	}
}

// Do runs a costed operation for the given user and action.
//
// Admin users are exempt: the mutation is applied and no deduction is
// recorded. For everyone else the flow is pre-check, apply, deduct. The
// pre-check is only an early rejection for the common case; the deduction
// itself re-verifies the balance atomically, so a concurrent spender
// between pre-check and deduct still cannot drive the balance negative.
func (g *Guard) Do(ctx context.Context, userID, action string, m Mutation) (string, *models.CreditTransaction, error) {
	cost, err := g.costs.Cost(action)
	if err != nil {
		return "", nil, err
	}

	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	if user.Role == models.RoleAdmin {
		ref, err := m.Apply(ctx)
		if err != nil {
			return "", nil, err
		}
		return ref, nil, nil
	}

	if user.CreditBalance < cost {
		return "", nil, fmt.Errorf("%w: balance %s, need %s for %s",
			storage.ErrInsufficientCredits, user.CreditBalance, cost, action)
	}

	ref, err := m.Apply(ctx)
	if err != nil {
		return "", nil, err
	}

	tx, err := g.ledger.Deduct(ctx, userID, cost, action, ref)
	if err == nil {
		return ref, tx, nil
	}

	g.logger.WarnContext(ctx, "deduction failed after mutation, compensating",
		"user_id", userID, "action", action, "ref", ref, "error", err)

	if m.Compensate == nil {
		return "", nil, g.compensationFailed(ctx, userID, action, ref, cost,
			fmt.Errorf("no compensation defined: %w", err))
	}

	if cerr := m.Compensate(ctx, ref); cerr != nil {
		return "", nil, g.compensationFailed(ctx, userID, action, ref, cost, cerr)
	}

	return "", nil, err
}

// CheckBalance reports whether the user can afford the given action
// without performing any mutation. Admin users can always afford it.
func (g *Guard) CheckBalance(ctx context.Context, userID, action string) (bool, models.Credits, error) {
	cost, err := g.costs.Cost(action)
	if err != nil {
		return false, 0, err
	}

	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	if user.Role == models.RoleAdmin {
		return true, cost, nil
	}
	return user.CreditBalance >= cost, cost, nil
}

func (g *Guard) compensationFailed(ctx context.Context, userID, action, ref string, cost models.Credits, cause error) error {
	g.logger.ErrorContext(ctx, "compensation failed, manual reconciliation required",
		"user_id", userID, "action", action, "ref", ref, "error", cause)

	incident := reconcile.NewIncident(userID, action, ref, cost, cause)
	if rerr := g.reporter.Report(ctx, incident); rerr != nil {
		g.logger.ErrorContext(ctx, "failed to report reconciliation incident",
			"user_id", userID, "ref", ref, "error", rerr)
	}

	return fmt.Errorf("%w for %s on %s: %v", ErrCompensationFailed, action, ref, cause)
}
