// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	BackendMongo    = "mongo"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds every runtime setting for the service.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StorageBackend selects the credit store driver: mongo, dynamodb or
	// memory.
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"mongo"`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"ficore_credits"`

	UsersTableName        string `env:"DYNAMODB_USERS_TABLE_NAME"`
	TransactionsTableName string `env:"DYNAMODB_TRANSACTIONS_TABLE_NAME"`
	GroceryListsTableName string `env:"DYNAMODB_GROCERY_LISTS_TABLE_NAME"`
	GroceryItemsTableName string `env:"DYNAMODB_GROCERY_ITEMS_TABLE_NAME"`
	IncidentsTableName    string `env:"DYNAMODB_INCIDENTS_TABLE_NAME"`
	ConnectionsTableName  string `env:"DYNAMODB_CONNECTIONS_TABLE_NAME"`

	// ReconcileQueueURL is where compensation-failure incidents are sent.
	// Empty disables the SQS reporter.
	ReconcileQueueURL string `env:"RECONCILE_QUEUE_URL"`

	// WebsocketAPIEndpoint is the API Gateway Management endpoint used to
	// push balance updates. Empty disables the publisher.
	WebsocketAPIEndpoint string `env:"WEBSOCKET_API_ENDPOINT"`
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.StorageBackend {
	case BackendMongo, BackendDynamoDB, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.StorageBackend == BackendDynamoDB {
		if cfg.UsersTableName == "" || cfg.TransactionsTableName == "" ||
			cfg.GroceryListsTableName == "" || cfg.GroceryItemsTableName == "" ||
			cfg.IncidentsTableName == "" || cfg.ConnectionsTableName == "" {
			return nil, fmt.Errorf("dynamodb backend requires all table name variables to be set")
		}
	}

	return cfg, nil
}
