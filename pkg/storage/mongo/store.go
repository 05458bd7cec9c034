// Package mongo implements the Storage interface against MongoDB, the
// backend the credit ledger was originally built on. The deduction protocol
// runs inside a session transaction with a conditional update so the balance
// is re-verified at write time.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// Collection name constants.
const (
	colUsers        = "users"
	colTransactions = "ficore_credit_transactions"
	colGroceryLists = "grocery_lists"
	colGroceryItems = "grocery_items"
	colIncidents    = "credit_reconciliations"
)

// Store implements the Storage interface using MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New creates a new Store against the named database.
func New(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) users() *mongo.Collection        { return s.db.Collection(colUsers) }
func (s *Store) transactions() *mongo.Collection { return s.db.Collection(colTransactions) }
func (s *Store) groceryLists() *mongo.Collection { return s.db.Collection(colGroceryLists) }
func (s *Store) groceryItems() *mongo.Collection { return s.db.Collection(colGroceryItems) }
func (s *Store) incidents() *mongo.Collection    { return s.db.Collection(colIncidents) }

// Migrate creates the indexes the ledger queries depend on.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colTransactions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		colGroceryLists: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		},
		colGroceryItems: {
			{Keys: bson.D{{Key: "list_id", Value: 1}}},
		},
		colIncidents: {
			{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		},
	}

	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// withTransaction runs fn inside a session transaction. Errors from fn abort
// the transaction and propagate unchanged, so sentinel errors survive.
func (s *Store) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
