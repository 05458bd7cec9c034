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

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

const listsByUserGSI = "user_id-updated_at-index"
const itemsByListGSI = "list_id-index"

// CreateList inserts a new grocery list record.
func (s *Store) CreateList(ctx context.Context, list *models.GroceryList) (*models.GroceryList, error) {
	// Already-set timestamps are preserved so a compensating re-insert
	// restores the record exactly as it was.
	now := time.Now().UTC()
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}
	if list.UpdatedAt.IsZero() {
		list.UpdatedAt = now
	}
	if list.Status == "" {
		list.Status = models.ListActive
	}

	listAV, err := attributevalue.MarshalMap(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grocery list: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.GroceryListsTableName),
		Item:                listAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create grocery list in DynamoDB: %w", err)
	}

	return list, nil
}

// GetList retrieves a grocery list and verifies ownership.
func (s *Store) GetList(ctx context.Context, listID, userID string) (*models.GroceryList, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": listID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.GroceryListsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery list from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
	}

	var list models.GroceryList
	if err := attributevalue.UnmarshalMap(result.Item, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery list: %w", err)
	}
	if list.UserID != userID {
		return nil, fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
	}

	return &list, nil
}

// ListsByUser retrieves all grocery lists for a user via the user/updated_at
// GSI, most recently updated first.
func (s *Store) ListsByUser(ctx context.Context, userID string) ([]models.GroceryList, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.GroceryListsTableName),
		IndexName:              aws.String(listsByUserGSI),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query grocery lists: %w", err)
	}

	var lists []models.GroceryList
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &lists); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery lists: %w", err)
	}
	return lists, nil
}

// ReplaceList overwrites a grocery list record in full.
func (s *Store) ReplaceList(ctx context.Context, list *models.GroceryList) error {
	listAV, err := attributevalue.MarshalMap(list)
	if err != nil {
		return fmt.Errorf("failed to marshal grocery list: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.GroceryListsTableName),
		Item:                listAV,
		ConditionExpression: aws.String("attribute_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("list %s: %w", list.ID, storage.ErrListNotFound)
		}
		return fmt.Errorf("failed to replace grocery list in DynamoDB: %w", err)
	}
	return nil
}

// DeleteList removes a grocery list record.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": listID})
	if err != nil {
		return fmt.Errorf("failed to marshal list ID for deletion: %w", err)
	}

	input := &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.GroceryListsTableName),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(id)"),
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
		}
		return fmt.Errorf("failed to delete grocery list from DynamoDB: %w", err)
	}
	return nil
}

// AddItem inserts a new grocery item record.
func (s *Store) AddItem(ctx context.Context, item *models.GroceryItem) (*models.GroceryItem, error) {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	itemAV, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grocery item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.GroceryItemsTableName),
		Item:                itemAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create grocery item in DynamoDB: %w", err)
	}
	return item, nil
}

// ItemsByList retrieves all items on a grocery list via the list_id GSI.
func (s *Store) ItemsByList(ctx context.Context, listID string) ([]models.GroceryItem, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.GroceryItemsTableName),
		IndexName:              aws.String(itemsByListGSI),
		KeyConditionExpression: aws.String("list_id = :list_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":list_id": &types.AttributeValueMemberS{Value: listID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query grocery items: %w", err)
	}

	var items []models.GroceryItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery items: %w", err)
	}
	return items, nil
}

// GetItem retrieves a grocery item by its ID.
func (s *Store) GetItem(ctx context.Context, itemID string) (*models.GroceryItem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.GroceryItemsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery item from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrItemNotFound)
	}

	var item models.GroceryItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery item: %w", err)
	}
	return &item, nil
}

// ReplaceItem overwrites a grocery item record in full.
func (s *Store) ReplaceItem(ctx context.Context, item *models.GroceryItem) error {
	itemAV, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal grocery item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.GroceryItemsTableName),
		Item:                itemAV,
		ConditionExpression: aws.String("attribute_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("item %s: %w", item.ID, storage.ErrItemNotFound)
		}
		return fmt.Errorf("failed to replace grocery item in DynamoDB: %w", err)
	}
	return nil
}

// DeleteItem removes a grocery item record.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": itemID})
	if err != nil {
		return fmt.Errorf("failed to marshal item ID for deletion: %w", err)
	}

	input := &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.GroceryItemsTableName),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(id)"),
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("item %s: %w", itemID, storage.ErrItemNotFound)
		}
		return fmt.Errorf("failed to delete grocery item from DynamoDB: %w", err)
	}
	return nil
}
