package storage

import (
	"context"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// IncidentStore persists compensation-failure incidents for manual
// reconciliation. Only the reconciliation worker writes here.
type IncidentStore interface {
	// RecordIncident stores a compensation-failure incident.
	RecordIncident(ctx context.Context, incident *models.Incident) error

	// ListIncidents returns the most recent incidents, newest first.
	ListIncidents(ctx context.Context, limit int32) ([]models.Incident, error)
}
