// Package reconcile carries compensation-failure incidents out of the
// request path. An incident means a business mutation persisted but could
// not be reversed after a failed deduction; a human has to resolve it, so
// the only job here is to make sure the incident is seen.
package reconcile

import (
	"context"
	"time"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// Reporter defines the interface for handing off an incident for manual
// reconciliation.
type Reporter interface {
	// Report delivers an incident. Best effort: callers log a failed
	// delivery but never fail the request over it.
	Report(ctx context.Context, incident *models.Incident) error
}

// NewIncident builds an incident record for a failed compensation.
func NewIncident(userID, action, entityRef string, amount models.Credits, reason error) *models.Incident {
	return &models.Incident{
		UserID:     userID,
		Action:     action,
		EntityRef:  entityRef,
		Amount:     amount,
		Reason:     reason.Error(),
		OccurredAt: time.Now().UTC(),
	}
}

// NoOpReporter is a Reporter that does nothing.
type NoOpReporter struct{}

// Report does nothing.
func (r *NoOpReporter) Report(ctx context.Context, incident *models.Incident) error {
	return nil
}
