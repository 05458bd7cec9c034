package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const colConnections = "ws_connections"

type wsConnection struct {
	ConnectionID string `bson:"_id"`
}

// AddConnection saves a new WebSocket connection ID.
func (s *Store) AddConnection(ctx context.Context, connectionID string) error {
	_, err := s.db.Collection(colConnections).InsertOne(ctx, wsConnection{ConnectionID: connectionID})
	if err != nil && !isDuplicateKey(err) {
		return fmt.Errorf("failed to insert connection: %w", err)
	}
	return nil
}

// RemoveConnection deletes a WebSocket connection ID.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	_, err := s.db.Collection(colConnections).DeleteOne(ctx, bson.M{"_id": connectionID})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// GetAllConnections retrieves all active WebSocket connection IDs.
func (s *Store) GetAllConnections(ctx context.Context) ([]string, error) {
	cursor, err := s.db.Collection(colConnections).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	var connections []wsConnection
	if err := cursor.All(ctx, &connections); err != nil {
		return nil, fmt.Errorf("failed to decode connections: %w", err)
	}

	connectionIDs := make([]string, len(connections))
	for i, conn := range connections {
		connectionIDs[i] = conn.ConnectionID
	}
	return connectionIDs, nil
}
