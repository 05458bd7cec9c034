// Package grocery exposes the grocery-list endpoints. Every mutation here
// costs credits and runs through the deduction guard: the write is applied
// first, the credits are deducted, and a failed deduction rolls the write
// back.
package grocery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/guard"
	"github.com/ficore-africa/ficore-credits/pkg/mapping"
	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/notify"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// GroceryHandler holds the dependencies for grocery-list handlers.
type GroceryHandler struct {
	Store     storage.GroceryStore
	Ledger    storage.CreditLedger
	Guard     *guard.Guard
	Publisher notify.Publisher
}

// NewGroceryHandler creates a new GroceryHandler.
func NewGroceryHandler(store storage.GroceryStore, ledger storage.CreditLedger, g *guard.Guard, publisher notify.Publisher) *GroceryHandler {
	return &GroceryHandler{Store: store, Ledger: ledger, Guard: g, Publisher: publisher}
}

// CreateList handles the guarded creation of a grocery list.
func (h *GroceryHandler) CreateList(w http.ResponseWriter, r *http.Request, userId string) {
	var newList api.NewGroceryList
	if err := json.NewDecoder(r.Body).Decode(&newList); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newList.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	domainList := mapping.ToDomainNewGroceryList(&newList, userId)
	domainList.ID = uuid.New().String()

	var created *models.GroceryList
	_, tx, err := h.Guard.Do(r.Context(), userId, pricing.CreateGroceryList, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			list, err := h.Store.CreateList(ctx, domainList)
			if err != nil {
				return "", err
			}
			created = list
			return list.ID, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return h.Store.DeleteList(ctx, ref)
		},
	})
	if err != nil {
		writeGuardError(w, err, "Failed to create grocery list")
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	apiList := mapping.ToApiGroceryList(created)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiList); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListLists handles retrieving all of a user's grocery lists. Reads are free.
func (h *GroceryHandler) ListLists(w http.ResponseWriter, r *http.Request, userId string) {
	domainLists, err := h.Store.ListsByUser(r.Context(), userId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve grocery lists: %v", err), http.StatusInternalServerError)
		return
	}

	apiLists := make([]*api.GroceryList, len(domainLists))
	for i, list := range domainLists {
		apiLists[i] = mapping.ToApiGroceryList(&list)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLists); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetList handles retrieving a single grocery list. Reads are free.
func (h *GroceryHandler) GetList(w http.ResponseWriter, r *http.Request, userId, listId string) {
	domainList, err := h.Store.GetList(r.Context(), listId, userId)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiList := mapping.ToApiGroceryList(domainList)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiList); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// SaveList handles the guarded full update of a grocery list. The prior
// document is captured first so a failed deduction can restore it.
func (h *GroceryHandler) SaveList(w http.ResponseWriter, r *http.Request, userId, listId string) {
	var newList api.NewGroceryList
	if err := json.NewDecoder(r.Body).Decode(&newList); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	prior, err := h.Store.GetList(r.Context(), listId, userId)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	updated := *prior
	updated.Name = newList.Name
	updated.Budget = newList.Budget
	updated.Status = models.ListSaved
	if newList.Collaborators != nil {
		updated.Collaborators = *newList.Collaborators
	}

	_, tx, err := h.Guard.Do(r.Context(), userId, pricing.SaveGroceryList, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			if err := h.Store.ReplaceList(ctx, &updated); err != nil {
				return "", err
			}
			return updated.ID, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return h.Store.ReplaceList(ctx, prior)
		},
	})
	if err != nil {
		writeGuardError(w, err, "Failed to save grocery list")
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	apiList := mapping.ToApiGroceryList(&updated)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiList); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DeleteList handles the guarded deletion of a grocery list. The deleted
// document is captured first so a failed deduction can re-insert it.
func (h *GroceryHandler) DeleteList(w http.ResponseWriter, r *http.Request, userId, listId string) {
	prior, err := h.Store.GetList(r.Context(), listId, userId)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	_, tx, err := h.Guard.Do(r.Context(), userId, pricing.DeleteGroceryList, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			if err := h.Store.DeleteList(ctx, listId); err != nil {
				return "", err
			}
			return listId, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			restored := *prior
			_, err := h.Store.CreateList(ctx, &restored)
			return err
		},
	})
	if err != nil {
		writeGuardError(w, err, "Failed to delete grocery list")
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles the guarded insertion of a grocery item.
func (h *GroceryHandler) AddItem(w http.ResponseWriter, r *http.Request, userId, listId string) {
	var newItem api.NewGroceryItem
	if err := json.NewDecoder(r.Body).Decode(&newItem); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newItem.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	// Ownership check before anything is charged or written.
	if _, err := h.Store.GetList(r.Context(), listId, userId); err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	domainItem := mapping.ToDomainNewGroceryItem(&newItem, listId)
	domainItem.ID = uuid.New().String()

	var created *models.GroceryItem
	_, tx, err := h.Guard.Do(r.Context(), userId, pricing.AddGroceryItem, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			item, err := h.Store.AddItem(ctx, domainItem)
			if err != nil {
				return "", err
			}
			created = item
			return item.ID, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return h.Store.DeleteItem(ctx, ref)
		},
	})
	if err != nil {
		writeGuardError(w, err, "Failed to add grocery item")
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	apiItem := mapping.ToApiGroceryItem(created)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiItem); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// UpdateItem handles the guarded full update of a grocery item.
func (h *GroceryHandler) UpdateItem(w http.ResponseWriter, r *http.Request, userId, listId, itemId string) {
	var newItem api.NewGroceryItem
	if err := json.NewDecoder(r.Body).Decode(&newItem); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if _, err := h.Store.GetList(r.Context(), listId, userId); err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	prior, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			http.Error(w, "Grocery item not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery item: %v", err), http.StatusInternalServerError)
		}
		return
	}
	if prior.ListID != listId {
		http.Error(w, "Grocery item not found", http.StatusNotFound)
		return
	}

	updated := *prior
	updated.Name = newItem.Name
	updated.Quantity = newItem.Quantity
	updated.Price = newItem.Price
	if newItem.Category != nil {
		updated.Category = *newItem.Category
	}

	_, tx, err := h.Guard.Do(r.Context(), userId, pricing.UpdateGroceryItem, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			if err := h.Store.ReplaceItem(ctx, &updated); err != nil {
				return "", err
			}
			return updated.ID, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return h.Store.ReplaceItem(ctx, prior)
		},
	})
	if err != nil {
		writeGuardError(w, err, "Failed to update grocery item")
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	apiItem := mapping.ToApiGroceryItem(&updated)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiItem); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DeleteItem handles removing a grocery item. Deleting a single item is
// free; only whole-list deletion is charged.
func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request, userId, listId, itemId string) {
	if _, err := h.Store.GetList(r.Context(), listId, userId); err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	if err := h.Store.DeleteItem(r.Context(), itemId); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			http.Error(w, "Grocery item not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to delete grocery item: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listExport is the payload returned by ExportList.
type listExport struct {
	List  *api.GroceryList   `json:"list"`
	Items []*api.GroceryItem `json:"items"`
}

// ExportList handles the guarded export of a grocery list with its items.
// The export itself writes nothing, so the guard's mutation is a no-op and
// compensation always succeeds.
func (h *GroceryHandler) ExportList(w http.ResponseWriter, r *http.Request, userId, listId string) {
	domainList, err := h.Store.GetList(r.Context(), listId, userId)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			http.Error(w, "Grocery list not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve grocery list: %v", err), http.StatusInternalServerError)
		}
		return
	}

	domainItems, err := h.Store.ItemsByList(r.Context(), listId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve grocery items: %v", err), http.StatusInternalServerError)
		return
	}

	_, tx, err := h.Guard.Do(r.Context(), userId, pricing.ExportGroceryListPDF, guard.Mutation{
		Apply: func(ctx context.Context) (string, error) {
			return listId, nil
		},
		Compensate: func(ctx context.Context, ref string) error {
			return nil
		},
	})
	if err != nil {
		writeGuardError(w, err, "Failed to export grocery list")
		return
	}

	h.publishBalanceUpdate(r, userId, tx)

	export := listExport{
		List:  mapping.ToApiGroceryList(domainList),
		Items: make([]*api.GroceryItem, len(domainItems)),
	}
	for i, item := range domainItems {
		export.Items[i] = mapping.ToApiGroceryItem(&item)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domainList.Name+".json"))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(export); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// writeGuardError maps guard and storage errors to HTTP statuses.
func writeGuardError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, storage.ErrInsufficientCredits):
		http.Error(w, "Insufficient credits", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, guard.ErrCompensationFailed):
		http.Error(w, "Operation failed and could not be rolled back; support has been notified", http.StatusInternalServerError)
	default:
		http.Error(w, fmt.Sprintf("%s: %v", fallback, err), http.StatusInternalServerError)
	}
}

// publishBalanceUpdate pushes the user's new balance to connected clients.
// Best effort, and skipped entirely for admin operations that recorded no
// transaction.
func (h *GroceryHandler) publishBalanceUpdate(r *http.Request, userId string, tx *models.CreditTransaction) {
	if h.Publisher == nil || tx == nil {
		return
	}

	balance, err := h.Ledger.GetBalance(r.Context(), userId)
	if err != nil {
		slog.Error("failed to get balance for websocket message", "error", err)
		return
	}

	msg := notify.Message{
		Type: notify.MessageTypeBalanceUpdate,
		Payload: notify.BalanceUpdatePayload{
			UserID:        userId,
			TransactionID: tx.ID,
			Action:        tx.Action,
			Change:        tx.Amount,
			NewBalance:    balance,
		},
	}
	if err := h.Publisher.Publish(r.Context(), msg); err != nil {
		slog.Error("failed to publish websocket message", "error", err)
	}
}
