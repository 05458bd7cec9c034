// Package api holds the request and response models of the HTTP API,
// decoupled from the domain models in pkg/models.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Values for UserRole.
const (
	Admin    UserRole = "admin"
	Personal UserRole = "personal"
	Trader   UserRole = "trader"
)

// Values for CreditTransactionStatus.
const (
	Completed CreditTransactionStatus = "completed"
)

// Values for GroceryListStatus.
const (
	Active GroceryListStatus = "active"
	Saved  GroceryListStatus = "saved"
)

// UserRole is a user access level.
type UserRole string

// CreditTransactionStatus is the state of a ledger entry.
type CreditTransactionStatus string

// GroceryListStatus is the lifecycle state of a grocery list.
type GroceryListStatus string

// User is the API representation of a user and their credit balance.
type User struct {
	UserId        string                `json:"user_id"`
	Email         openapi_types.Email   `json:"email"`
	Role          UserRole              `json:"role"`
	CreditBalance float64               `json:"credit_balance"`
	CreatedAt     time.Time             `json:"created_at"`
}

// NewUser is the request body for registering a user.
type NewUser struct {
	UserId string              `json:"user_id"`
	Email  openapi_types.Email `json:"email"`
	Role   *UserRole           `json:"role,omitempty"`
}

// Balance is the response body for a balance query.
type Balance struct {
	UserId        string  `json:"user_id"`
	CreditBalance float64 `json:"credit_balance"`
}

// CreditTransaction is one entry of the credit ledger. Amount is in
// decimal credits, negative for deductions.
type CreditTransaction struct {
	Id        string                  `json:"id"`
	UserId    string                  `json:"user_id"`
	Amount    float64                 `json:"amount"`
	Action    string                  `json:"action"`
	Ref       *string                 `json:"ref,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
	Status    CreditTransactionStatus `json:"status"`
}

// TopUpRequest is the request body for crediting a balance.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
	Ref    *string `json:"ref,omitempty"`
}

// GroceryList is the API representation of a grocery list.
type GroceryList struct {
	Id            string            `json:"id"`
	UserId        string            `json:"user_id"`
	Name          string            `json:"name"`
	Budget        float64           `json:"budget"`
	TotalSpent    float64           `json:"total_spent"`
	Status        GroceryListStatus `json:"status"`
	Collaborators *[]string         `json:"collaborators,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewGroceryList is the request body for creating or saving a list.
type NewGroceryList struct {
	Name          string    `json:"name"`
	Budget        float64   `json:"budget"`
	Collaborators *[]string `json:"collaborators,omitempty"`
}

// GroceryItem is the API representation of a grocery item.
type GroceryItem struct {
	Id        string    `json:"id"`
	ListId    string    `json:"list_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGroceryItem is the request body for adding or updating an item.
type NewGroceryItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Category *string `json:"category,omitempty"`
}

// ListTransactionsParams are the query parameters for the ledger history.
type ListTransactionsParams struct {
	Limit *int32 `form:"limit,omitempty" json:"limit,omitempty"`
}

// CreditReport summarizes a user's ledger activity. Amounts are in decimal
// credits.
type CreditReport struct {
	UserId           string             `json:"user_id"`
	GeneratedAt      time.Time          `json:"generated_at"`
	Balance          float64            `json:"balance"`
	TotalSpent       float64            `json:"total_spent"`
	TotalToppedUp    float64            `json:"total_topped_up"`
	SpentByAction    map[string]float64 `json:"spent_by_action"`
	TransactionCount int                `json:"transaction_count"`
}
