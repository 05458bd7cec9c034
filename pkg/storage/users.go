package storage

import (
	"context"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// UserStore defines the interface for managing user wallet records.
type UserStore interface {
	// GetUser retrieves a user by their user ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// CreateUser creates a new user record with its starting balance.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)

	// DeleteUser deletes a user record.
	DeleteUser(ctx context.Context, userID string) error
}
