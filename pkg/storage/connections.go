package storage

import "context"

// ConnectionStore defines the interface for storing and retrieving WebSocket
// connection IDs used by the balance-update publisher. Kept out of the root
// Storage interface: only the notification path touches it.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetAllConnections(ctx context.Context) ([]string, error)
}
