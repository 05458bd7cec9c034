package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/ficore-africa/ficore-credits/pkg/models"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
	dydbstore "github.com/ficore-africa/ficore-credits/pkg/storage/dynamodb"
)

var store storage.IncidentStore

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	incidentsTable := os.Getenv("DYNAMODB_INCIDENTS_TABLE_NAME")
	if incidentsTable == "" {
		log.Fatal("DYNAMODB_INCIDENTS_TABLE_NAME environment variable not set")
	}

	store = dydbstore.New(dynamodb.NewFromConfig(cfg),
		os.Getenv("DYNAMODB_USERS_TABLE_NAME"),
		os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		os.Getenv("DYNAMODB_GROCERY_LISTS_TABLE_NAME"),
		os.Getenv("DYNAMODB_GROCERY_ITEMS_TABLE_NAME"),
		incidentsTable,
		os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	)
}

// HandleRequest persists every incident in the batch so the operations team
// can reconcile the affected records by hand. Incidents are never retried
// against the ledger.
func HandleRequest(ctx context.Context, event events.SQSEvent) error {
	log.Printf("Received %d incident(s) for reconciliation", len(event.Records))

	for _, record := range event.Records {
		var incident models.Incident
		if err := json.Unmarshal([]byte(record.Body), &incident); err != nil {
			log.Printf("ERROR: failed to unmarshal incident message %s: %v", record.MessageId, err)
			// A malformed message would fail forever; drop it rather than
			// block the queue.
			continue
		}

		if err := store.RecordIncident(ctx, &incident); err != nil {
			log.Printf("ERROR: failed to record incident %s: %v", incident.ID, err)
			// Returning the error makes SQS redeliver the whole batch.
			return err
		}

		log.Printf("Recorded incident %s for user %s (action %s, ref %s)",
			incident.ID, incident.UserID, incident.Action, incident.EntityRef)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
