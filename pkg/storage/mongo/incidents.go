package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// RecordIncident stores a compensation-failure incident for manual review.
func (s *Store) RecordIncident(ctx context.Context, incident *models.Incident) error {
	if _, err := s.incidents().InsertOne(ctx, incident); err != nil {
		return fmt.Errorf("failed to insert reconciliation incident: %w", err)
	}
	return nil
}

// ListIncidents returns the most recent incidents, newest first.
func (s *Store) ListIncidents(ctx context.Context, limit int32) ([]models.Incident, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.incidents().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation incidents: %w", err)
	}

	var incidents []models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, fmt.Errorf("failed to decode reconciliation incidents: %w", err)
	}
	return incidents, nil
}
