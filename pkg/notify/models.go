package notify

import "github.com/ficore-africa/ficore-credits/pkg/models"

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeBalanceUpdate is for messages that report a changed
	// credit balance.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	UserID        string         `json:"user_id"`
	TransactionID string         `json:"transaction_id"`
	Action        string         `json:"action"`
	Change        models.Credits `json:"change"`
	NewBalance    models.Credits `json:"new_balance"`
}
