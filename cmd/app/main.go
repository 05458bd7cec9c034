package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ficore-africa/ficore-credits/pkg/config"
	"github.com/ficore-africa/ficore-credits/pkg/guard"
	"github.com/ficore-africa/ficore-credits/pkg/handlers"
	wshandlers "github.com/ficore-africa/ficore-credits/pkg/handlers/websockets"
	"github.com/ficore-africa/ficore-credits/pkg/middleware"
	"github.com/ficore-africa/ficore-credits/pkg/notify"
	"github.com/ficore-africa/ficore-credits/pkg/pricing"
	"github.com/ficore-africa/ficore-credits/pkg/reconcile"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
	dydbstore "github.com/ficore-africa/ficore-credits/pkg/storage/dynamodb"
	memorystore "github.com/ficore-africa/ficore-credits/pkg/storage/memory"
	mongostore "github.com/ficore-africa/ficore-credits/pkg/storage/mongo"
)

// appStorage is what the service needs from a backend: the credit store
// plus the WebSocket connection registry.
type appStorage interface {
	storage.Storage
	storage.ConnectionStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	reporter, err := newReporter(cfg)
	if err != nil {
		log.Fatalf("failed to initialize incident reporter: %v", err)
	}

	publisher, err := newPublisher(cfg, store)
	if err != nil {
		log.Fatalf("failed to initialize publisher: %v", err)
	}

	g := guard.New(store, store, pricing.Default(), reporter, logger)
	handler := handlers.NewApiHandler(store, g, publisher)

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(logger))
	handler.RegisterRoutes(router)

	// Local development WebSocket endpoint; in AWS the API Gateway
	// WebSocket API handles connections instead.
	router.Handle("/ws", wshandlers.NewHandler(store))

	logger.Info("starting server", "port", cfg.HTTPPort, "backend", cfg.StorageBackend)

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newStore(cfg *config.Config) (appStorage, error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client, cfg.MongoDatabase)
		if err := store.Migrate(context.Background()); err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, err
		}
		return dydbstore.New(dynamodb.NewFromConfig(awsCfg),
			cfg.UsersTableName,
			cfg.TransactionsTableName,
			cfg.GroceryListsTableName,
			cfg.GroceryItemsTableName,
			cfg.IncidentsTableName,
			cfg.ConnectionsTableName,
		), nil

	default:
		return memorystore.New(), nil
	}
}

func newReporter(cfg *config.Config) (reconcile.Reporter, error) {
	if cfg.ReconcileQueueURL == "" {
		return &reconcile.NoOpReporter{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}
	return reconcile.NewSQSReporter(sqs.NewFromConfig(awsCfg), cfg.ReconcileQueueURL), nil
}

func newPublisher(cfg *config.Config, connections storage.ConnectionStore) (notify.Publisher, error) {
	if cfg.WebsocketAPIEndpoint == "" {
		return &notify.NoOpPublisher{}, nil
	}
	return notify.NewPublisher(connections, cfg.WebsocketAPIEndpoint)
}
