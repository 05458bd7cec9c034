package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// CreateList inserts a new grocery list document.
func (s *Store) CreateList(ctx context.Context, list *models.GroceryList) (*models.GroceryList, error) {
	// Already-set timestamps are preserved so a compensating re-insert
	// restores the document exactly as it was.
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

	if _, err := s.groceryLists().InsertOne(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to insert grocery list: %w", err)
	}
	return list, nil
}

// GetList retrieves a grocery list owned by the given user.
func (s *Store) GetList(ctx context.Context, listID, userID string) (*models.GroceryList, error) {
	var list models.GroceryList
	err := s.groceryLists().FindOne(ctx, bson.M{"_id": listID, "user_id": userID}).Decode(&list)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
		}
		return nil, fmt.Errorf("failed to get grocery list: %w", err)
	}
	return &list, nil
}

// ListsByUser retrieves all grocery lists for a user, most recently updated
// first.
func (s *Store) ListsByUser(ctx context.Context, userID string) ([]models.GroceryList, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.groceryLists().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query grocery lists: %w", err)
	}

	var lists []models.GroceryList
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode grocery lists: %w", err)
	}
	return lists, nil
}

// ReplaceList overwrites a grocery list document in full.
func (s *Store) ReplaceList(ctx context.Context, list *models.GroceryList) error {
	res, err := s.groceryLists().ReplaceOne(ctx, bson.M{"_id": list.ID}, list)
	if err != nil {
		return fmt.Errorf("failed to replace grocery list: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("list %s: %w", list.ID, storage.ErrListNotFound)
	}
	return nil
}

// DeleteList removes a grocery list document.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	res, err := s.groceryLists().DeleteOne(ctx, bson.M{"_id": listID})
	if err != nil {
		return fmt.Errorf("failed to delete grocery list: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
	}
	return nil
}

// AddItem inserts a new grocery item document.
func (s *Store) AddItem(ctx context.Context, item *models.GroceryItem) (*models.GroceryItem, error) {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.groceryItems().InsertOne(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to insert grocery item: %w", err)
	}
	return item, nil
}

// ItemsByList retrieves all items on a grocery list, oldest first.
func (s *Store) ItemsByList(ctx context.Context, listID string) ([]models.GroceryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.groceryItems().Find(ctx, bson.M{"list_id": listID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query grocery items: %w", err)
	}

	var items []models.GroceryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode grocery items: %w", err)
	}
	return items, nil
}

// GetItem retrieves a grocery item by ID.
func (s *Store) GetItem(ctx context.Context, itemID string) (*models.GroceryItem, error) {
	var item models.GroceryItem
	err := s.groceryItems().FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to get grocery item: %w", err)
	}
	return &item, nil
}

// ReplaceItem overwrites a grocery item document in full.
func (s *Store) ReplaceItem(ctx context.Context, item *models.GroceryItem) error {
	res, err := s.groceryItems().ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("failed to replace grocery item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("item %s: %w", item.ID, storage.ErrItemNotFound)
	}
	return nil
}

// DeleteItem removes a grocery item document.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	res, err := s.groceryItems().DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("item %s: %w", itemID, storage.ErrItemNotFound)
	}
	return nil
}
