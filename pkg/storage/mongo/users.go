package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// CreateUser creates a new user record in MongoDB.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now().UTC()

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("user %s: %w", user.ID, storage.ErrUserExists)
		}
		return nil, fmt.Errorf("failed to create user in MongoDB: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user record from MongoDB by user ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user from MongoDB: %w", err)
	}
	return &user, nil
}

// DeleteUser deletes a user record from MongoDB.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.users().DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user from MongoDB: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
	}
	return nil
}
