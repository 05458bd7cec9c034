package mapping

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ficore-africa/ficore-credits/pkg/api"
	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// ToApiUser converts a domain User model to an API User model.
func ToApiUser(user *models.User) *api.User {
	return &api.User{
		UserId:        user.ID,
		Email:         openapi_types.Email(user.Email),
		Role:          api.UserRole(user.Role),
		CreditBalance: user.CreditBalance.Float64(),
		CreatedAt:     user.CreatedAt,
	}
}

// ToDomainNewUser converts an API NewUser model to a domain User model.
// New users start with a zero balance; credits arrive only through top-ups.
func ToDomainNewUser(newUser *api.NewUser) *models.User {
	role := models.RolePersonal
	if newUser.Role != nil {
		role = models.Role(*newUser.Role)
	}
	return &models.User{
		ID:    newUser.UserId,
		Email: string(newUser.Email),
		Role:  role,
	}
}

// ToApiTransaction converts a domain CreditTransaction to an API model.
// Amounts cross the boundary as decimal credits, not internal hundredths.
func ToApiTransaction(tx *models.CreditTransaction) *api.CreditTransaction {
	apiTx := &api.CreditTransaction{
		Id:        tx.ID,
		UserId:    tx.UserID,
		Amount:    tx.Amount.Float64(),
		Action:    tx.Action,
		Timestamp: tx.Timestamp,
		Status:    api.CreditTransactionStatus(tx.Status),
	}
	if tx.Ref != "" {
		apiTx.Ref = &tx.Ref
	}
	return apiTx
}

// ToApiBalance builds the balance response for a user.
func ToApiBalance(userID string, balance models.Credits) *api.Balance {
	return &api.Balance{
		UserId:        userID,
		CreditBalance: balance.Float64(),
	}
}

// ToApiGroceryList converts a domain GroceryList to an API model.
func ToApiGroceryList(list *models.GroceryList) *api.GroceryList {
	apiList := &api.GroceryList{
		Id:         list.ID,
		UserId:     list.UserID,
		Name:       list.Name,
		Budget:     list.Budget,
		TotalSpent: list.TotalSpent,
		Status:     api.GroceryListStatus(list.Status),
		CreatedAt:  list.CreatedAt,
		UpdatedAt:  list.UpdatedAt,
	}
	if len(list.Collaborators) > 0 {
		apiList.Collaborators = &list.Collaborators
	}
	return apiList
}

// ToDomainNewGroceryList converts an API NewGroceryList to a domain model.
func ToDomainNewGroceryList(newList *api.NewGroceryList, userID string) *models.GroceryList {
	list := &models.GroceryList{
		UserID: userID,
		Name:   newList.Name,
		Budget: newList.Budget,
		Status: models.ListActive,
	}
	if newList.Collaborators != nil {
		list.Collaborators = *newList.Collaborators
	}
	return list
}

// ToApiGroceryItem converts a domain GroceryItem to an API model.
func ToApiGroceryItem(item *models.GroceryItem) *api.GroceryItem {
	apiItem := &api.GroceryItem{
		Id:        item.ID,
		ListId:    item.ListID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Category != "" {
		apiItem.Category = &item.Category
	}
	return apiItem
}

// ToDomainNewGroceryItem converts an API NewGroceryItem to a domain model.
func ToDomainNewGroceryItem(newItem *api.NewGroceryItem, listID string) *models.GroceryItem {
	item := &models.GroceryItem{
		ListID:   listID,
		Name:     newItem.Name,
		Quantity: newItem.Quantity,
		Price:    newItem.Price,
	}
	if newItem.Category != nil {
		item.Category = *newItem.Category
	}
	return item
}
