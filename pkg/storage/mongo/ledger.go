package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// GetBalance returns the user's current credit balance. A user document
// without the balance field reads as zero.
func (s *Store) GetBalance(ctx context.Context, userID string) (models.Credits, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.CreditBalance, nil
}

// Deduct atomically decrements the user's balance and appends a transaction
// record. The decrement filter re-checks balance >= amount even though the
// writes run inside a session transaction, so two concurrent deductions can
// never drive the balance negative.
func (s *Store) Deduct(ctx context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deduct %s for %s: %w", amount, userID, storage.ErrInvalidAmount)
	}

	tx := &models.CreditTransaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    -amount,
		Action:    action,
		Ref:       ref,
		Timestamp: time.Now().UTC(),
		Status:    models.COMPLETED,
	}

	err := s.withTransaction(ctx, func(ctx context.Context) error {
		res, err := s.users().UpdateOne(ctx,
			bson.M{"_id": userID, "credit_balance": bson.M{"$gte": amount}},
			bson.M{"$inc": bson.M{"credit_balance": -amount}},
		)
		if err != nil {
			return fmt.Errorf("failed to decrement balance: %w", err)
		}
		if res.MatchedCount == 0 {
			// Distinguish a missing user from an insufficient balance.
			n, err := s.users().CountDocuments(ctx, bson.M{"_id": userID})
			if err != nil {
				return fmt.Errorf("failed to look up user %s: %w", userID, err)
			}
			if n == 0 {
				return fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
			}
			return fmt.Errorf("deduct %s for %s: %w", amount, userID, storage.ErrInsufficientCredits)
		}

		if _, err := s.transactions().InsertOne(ctx, tx); err != nil {
			return fmt.Errorf("failed to insert credit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// TopUp atomically increments the user's balance and appends a positive
// transaction record.
func (s *Store) TopUp(ctx context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("top up %s for %s: %w", amount, userID, storage.ErrInvalidAmount)
	}

	tx := &models.CreditTransaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Action:    action,
		Ref:       ref,
		Timestamp: time.Now().UTC(),
		Status:    models.COMPLETED,
	}

	err := s.withTransaction(ctx, func(ctx context.Context) error {
		res, err := s.users().UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$inc": bson.M{"credit_balance": amount}},
		)
		if err != nil {
			return fmt.Errorf("failed to increment balance: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
		}

		if _, err := s.transactions().InsertOne(ctx, tx); err != nil {
			return fmt.Errorf("failed to insert credit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// ListTransactions returns the user's most recent ledger entries.
func (s *Store) ListTransactions(ctx context.Context, userID string, limit int32) ([]models.CreditTransaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.transactions().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit transactions: %w", err)
	}

	var txs []models.CreditTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode credit transactions: %w", err)
	}
	return txs, nil
}
