package storage

import (
	"context"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// GroceryStore defines the interface for the grocery-list entity store.
// Every mutation must be reversible so the deduction guard can compensate:
// inserts are undone with a delete, updates by replacing the document with
// its captured prior state.
type GroceryStore interface {
	// CreateList inserts a new grocery list.
	CreateList(ctx context.Context, list *models.GroceryList) (*models.GroceryList, error)

	// GetList retrieves a list owned by the given user.
	GetList(ctx context.Context, listID, userID string) (*models.GroceryList, error)

	// ListsByUser retrieves all lists for a user, most recently updated first.
	ListsByUser(ctx context.Context, userID string) ([]models.GroceryList, error)

	// ReplaceList overwrites a list document in full. Used both for saves
	// and for restoring a captured prior state during compensation.
	ReplaceList(ctx context.Context, list *models.GroceryList) error

	// DeleteList removes a list. Used both for guarded deletes and as the
	// compensation for a create.
	DeleteList(ctx context.Context, listID string) error

	// AddItem inserts a new item on a list.
	AddItem(ctx context.Context, item *models.GroceryItem) (*models.GroceryItem, error)

	// ItemsByList retrieves all items on a list.
	ItemsByList(ctx context.Context, listID string) ([]models.GroceryItem, error)

	// GetItem retrieves an item by its ID.
	GetItem(ctx context.Context, itemID string) (*models.GroceryItem, error)

	// ReplaceItem overwrites an item document in full.
	ReplaceItem(ctx context.Context, item *models.GroceryItem) error

	// DeleteItem removes an item.
	DeleteItem(ctx context.Context, itemID string) error
}
