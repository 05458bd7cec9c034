// Package dynamodb implements the Storage interface using AWS DynamoDB.
// The deduction protocol maps onto TransactWriteItems: a conditional update
// of the balance and the transaction-record put commit together or not at
// all.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// DynamoDBAPI defines the subset of the DynamoDB client used by the store.
// It exists so tests can mock the client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	UsersTableName        string
	TransactionsTableName string
	GroceryListsTableName string
	GroceryItemsTableName string
	IncidentsTableName    string
	ConnectionsTableName  string
}

// New creates a new Store.
func New(client DynamoDBAPI, usersTable, transactionsTable, groceryListsTable, groceryItemsTable, incidentsTable, connectionsTable string) *Store {
	return &Store{
		Client:                client,
		UsersTableName:        usersTable,
		TransactionsTableName: transactionsTable,
		GroceryListsTableName: groceryListsTable,
		GroceryItemsTableName: groceryItemsTable,
		IncidentsTableName:    incidentsTable,
		ConnectionsTableName:  connectionsTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
