package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

const transactionsByUserGSI = "user_id-timestamp-index"

// GetBalance returns the user's current credit balance.
func (s *Store) GetBalance(ctx context.Context, userID string) (models.Credits, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.CreditBalance, nil
}

// Deduct atomically decrements the user's balance and creates the matching
// transaction record in a single TransactWriteItems call. The condition
// expression re-checks credit_balance >= :amount at write time, so two
// concurrent deductions can never drive the balance negative.
func (s *Store) Deduct(ctx context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deduct %s for %s: %w", amount, userID, storage.ErrInvalidAmount)
	}

	// Verify the user exists up front so a missing user is reported as such
	// rather than as a failed condition check.
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
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

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amount: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Decrement the user's balance, guarded by the
				// balance re-check.
				Update: &types.Update{
					TableName: aws.String(s.UsersTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: userID},
					},
					UpdateExpression:    aws.String("SET credit_balance = credit_balance - :amount"),
					ConditionExpression: aws.String("credit_balance >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
					},
				},
			},
			{
				// Operation 2: Create the transaction record.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			// The first operation failing its conditional check means the
			// balance could not cover the amount.
			if len(tce.CancellationReasons) > 0 && tce.CancellationReasons[0].Code != nil &&
				*tce.CancellationReasons[0].Code == "ConditionalCheckFailed" {
				return nil, fmt.Errorf("deduct %s for %s: %w", amount, userID, storage.ErrInsufficientCredits)
			}
		}
		return nil, fmt.Errorf("failed to execute deduction transaction: %w", err)
	}

	return tx, nil
}

// TopUp atomically increments the user's balance and creates the matching
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

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amount: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(s.UsersTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: userID},
					},
					UpdateExpression:    aws.String("SET credit_balance = credit_balance + :amount"),
					ConditionExpression: aws.String("attribute_exists(user_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			if len(tce.CancellationReasons) > 0 && tce.CancellationReasons[0].Code != nil &&
				*tce.CancellationReasons[0].Code == "ConditionalCheckFailed" {
				return nil, fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
			}
		}
		return nil, fmt.Errorf("failed to execute top-up transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions retrieves the user's most recent ledger entries via the
// user_id/timestamp GSI, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID string, limit int32) ([]models.CreditTransaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(transactionsByUserGSI),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit transactions: %w", err)
	}

	var txs []models.CreditTransaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credit transactions: %w", err)
	}

	return txs, nil
}
