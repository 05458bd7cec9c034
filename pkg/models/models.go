package models

import (
	"time"
)

// Role identifies a user's access level. Admins are exempt from credit
// deductions entirely; the exemption is checked once at the guard boundary.
type Role string

const (
	RolePersonal Role = "personal"
	RoleTrader   Role = "trader"
	RoleAdmin    Role = "admin"
)

// TransactionStatus defines the possible states of a credit transaction.
type TransactionStatus string

const (
	// COMPLETED is the only status a transaction is ever written with.
	// The ledger is append-only; records are never updated or deleted.
	COMPLETED TransactionStatus = "completed"
)

// User represents the internal domain model for a user and their wallet.
// CreditBalance is mutated only through the ledger's Deduct and TopUp
// operations and never goes negative after a committed write.
type User struct {
	ID            string    `json:"user_id" bson:"_id" dynamodbav:"user_id"`
	Email         string    `json:"email" bson:"email" dynamodbav:"email"`
	Role          Role      `json:"role" bson:"role" dynamodbav:"role"`
	CreditBalance Credits   `json:"credit_balance" bson:"credit_balance" dynamodbav:"credit_balance"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" dynamodbav:"created_at"`
}

// CreditTransaction is one immutable entry in the credit ledger. Amount is
// signed: negative for a deduction, positive for a top-up.
type CreditTransaction struct {
	ID        string            `json:"id" bson:"_id" dynamodbav:"id"`
	UserID    string            `json:"user_id" bson:"user_id" dynamodbav:"user_id"`
	Amount    Credits           `json:"amount" bson:"amount" dynamodbav:"amount"`
	Action    string            `json:"action" bson:"action" dynamodbav:"action"`
	Ref       string            `json:"ref,omitempty" bson:"ref,omitempty" dynamodbav:"ref,omitempty"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp" dynamodbav:"timestamp"`
	Status    TransactionStatus `json:"status" bson:"status" dynamodbav:"status"`
}

// GroceryListStatus defines the lifecycle states of a grocery list.
type GroceryListStatus string

const (
	ListActive GroceryListStatus = "active"
	ListSaved  GroceryListStatus = "saved"
)

// GroceryList is the representative business entity guarded by the
// deduction protocol: created, saved and deleted only through the guard.
type GroceryList struct {
	ID            string            `json:"id" bson:"_id" dynamodbav:"id"`
	UserID        string            `json:"user_id" bson:"user_id" dynamodbav:"user_id"`
	Name          string            `json:"name" bson:"name" dynamodbav:"name"`
	Budget        float64           `json:"budget" bson:"budget" dynamodbav:"budget"`
	TotalSpent    float64           `json:"total_spent" bson:"total_spent" dynamodbav:"total_spent"`
	Status        GroceryListStatus `json:"status" bson:"status" dynamodbav:"status"`
	Collaborators []string          `json:"collaborators,omitempty" bson:"collaborators,omitempty" dynamodbav:"collaborators,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at" dynamodbav:"updated_at"`
}

// GroceryItem is a single entry on a grocery list.
type GroceryItem struct {
	ID        string    `json:"id" bson:"_id" dynamodbav:"id"`
	ListID    string    `json:"list_id" bson:"list_id" dynamodbav:"list_id"`
	Name      string    `json:"name" bson:"name" dynamodbav:"name"`
	Quantity  int       `json:"quantity" bson:"quantity" dynamodbav:"quantity"`
	Price     float64   `json:"price" bson:"price" dynamodbav:"price"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty" dynamodbav:"category,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" dynamodbav:"updated_at"`
}

// Incident records a compensation failure: the business mutation persisted
// but could not be reversed after a failed deduction. Incidents are handed
// to a human for reconciliation; they are never retried automatically.
type Incident struct {
	ID         string    `json:"id" bson:"_id" dynamodbav:"id"`
	UserID     string    `json:"user_id" bson:"user_id" dynamodbav:"user_id"`
	Action     string    `json:"action" bson:"action" dynamodbav:"action"`
	EntityRef  string    `json:"entity_ref" bson:"entity_ref" dynamodbav:"entity_ref"`
	Amount     Credits   `json:"amount" bson:"amount" dynamodbav:"amount"`
	Reason     string    `json:"reason" bson:"reason" dynamodbav:"reason"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at" dynamodbav:"occurred_at"`
}
