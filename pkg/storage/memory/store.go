// Package memory implements the Storage interface in process memory. It is
// used by tests and local development; a single mutex gives it the same
// both-or-neither deduction guarantee the real backends provide.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// Store implements the Storage interface with in-process maps.
type Store struct {
	mu           sync.Mutex
	users        map[string]models.User
	transactions []models.CreditTransaction
	lists        map[string]models.GroceryList
	items        map[string]models.GroceryItem
	incidents    []models.Incident
	connections  map[string]struct{}
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users: make(map[string]models.User),
		lists: make(map[string]models.GroceryList),
		items: make(map[string]models.GroceryItem),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// CreateUser creates a new user record.
func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return nil, fmt.Errorf("user %s: %w", user.ID, storage.ErrUserExists)
	}
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return user, nil
}

// GetUser retrieves a user record.
func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
	}
	return &user, nil
}

// DeleteUser deletes a user record.
func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
	}
	delete(s.users, userID)
	return nil
}

// GetBalance returns the user's current balance.
func (s *Store) GetBalance(ctx context.Context, userID string) (models.Credits, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.CreditBalance, nil
}

// Deduct decrements the balance and appends a transaction under one lock.
func (s *Store) Deduct(_ context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deduct %s for %s: %w", amount, userID, storage.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
	}
	if user.CreditBalance < amount {
		return nil, fmt.Errorf("deduct %s for %s: %w", amount, userID, storage.ErrInsufficientCredits)
	}

	user.CreditBalance -= amount
	s.users[userID] = user

	tx := models.CreditTransaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    -amount,
		Action:    action,
		Ref:       ref,
		Timestamp: time.Now().UTC(),
		Status:    models.COMPLETED,
	}
	s.transactions = append(s.transactions, tx)
	return &tx, nil
}

// TopUp increments the balance and appends a transaction under one lock.
func (s *Store) TopUp(_ context.Context, userID string, amount models.Credits, action, ref string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("top up %s for %s: %w", amount, userID, storage.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrUserNotFound)
	}

	user.CreditBalance += amount
	s.users[userID] = user

	tx := models.CreditTransaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Action:    action,
		Ref:       ref,
		Timestamp: time.Now().UTC(),
		Status:    models.COMPLETED,
	}
	s.transactions = append(s.transactions, tx)
	return &tx, nil
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *Store) ListTransactions(_ context.Context, userID string, limit int32) ([]models.CreditTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []models.CreditTransaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Timestamp.After(txs[j].Timestamp) })
	if limit > 0 && int(limit) < len(txs) {
		txs = txs[:limit]
	}
	return txs, nil
}

// CreateList inserts a grocery list.
func (s *Store) CreateList(_ context.Context, list *models.GroceryList) (*models.GroceryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.lists[list.ID] = *list
	return list, nil
}

// GetList retrieves a grocery list owned by the given user.
func (s *Store) GetList(_ context.Context, listID, userID string) (*models.GroceryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return nil, fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
	}
	return &list, nil
}

// ListsByUser retrieves a user's grocery lists, most recently updated first.
func (s *Store) ListsByUser(_ context.Context, userID string) ([]models.GroceryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lists []models.GroceryList
	for _, list := range s.lists {
		if list.UserID == userID {
			lists = append(lists, list)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].UpdatedAt.After(lists[j].UpdatedAt) })
	return lists, nil
}

// ReplaceList overwrites a grocery list.
func (s *Store) ReplaceList(_ context.Context, list *models.GroceryList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[list.ID]; !ok {
		return fmt.Errorf("list %s: %w", list.ID, storage.ErrListNotFound)
	}
	s.lists[list.ID] = *list
	return nil
}

// DeleteList removes a grocery list.
func (s *Store) DeleteList(_ context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[listID]; !ok {
		return fmt.Errorf("list %s: %w", listID, storage.ErrListNotFound)
	}
	delete(s.lists, listID)
	return nil
}

// AddItem inserts a grocery item.
func (s *Store) AddItem(_ context.Context, item *models.GroceryItem) (*models.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = *item
	return item, nil
}

// ItemsByList retrieves all items on a grocery list, oldest first.
func (s *Store) ItemsByList(_ context.Context, listID string) ([]models.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.GroceryItem
	for _, item := range s.items {
		if item.ListID == listID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// GetItem retrieves a grocery item.
func (s *Store) GetItem(_ context.Context, itemID string) (*models.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrItemNotFound)
	}
	return &item, nil
}

// ReplaceItem overwrites a grocery item.
func (s *Store) ReplaceItem(_ context.Context, item *models.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return fmt.Errorf("item %s: %w", item.ID, storage.ErrItemNotFound)
	}
	s.items[item.ID] = *item
	return nil
}

// DeleteItem removes a grocery item.
func (s *Store) DeleteItem(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("item %s: %w", itemID, storage.ErrItemNotFound)
	}
	delete(s.items, itemID)
	return nil
}

// RecordIncident stores a compensation-failure incident.
func (s *Store) RecordIncident(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.incidents = append(s.incidents, *incident)
	return nil
}

// ListIncidents returns the most recent incidents, newest first.
func (s *Store) ListIncidents(_ context.Context, limit int32) ([]models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incidents := make([]models.Incident, len(s.incidents))
	copy(incidents, s.incidents)
	sort.Slice(incidents, func(i, j int) bool { return incidents[i].OccurredAt.After(incidents[j].OccurredAt) })
	if limit > 0 && int(limit) < len(incidents) {
		incidents = incidents[:limit]
	}
	return incidents, nil
}
