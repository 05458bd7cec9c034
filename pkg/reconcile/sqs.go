package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// SQSAPI defines the subset of the SQS client used by the reporter.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSReporter implements the Reporter interface using AWS SQS.
type SQSReporter struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSReporter creates a new SQSReporter.
func NewSQSReporter(client SQSAPI, queueURL string) *SQSReporter {
	return &SQSReporter{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Reporter = (*SQSReporter)(nil)

// Report sends the incident to the reconciliation queue.
func (r *SQSReporter) Report(ctx context.Context, incident *models.Incident) error {
	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}

	// Marshal the incident to JSON.
	body, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for SQS: %w", err)
	}

	// Send the message to SQS.
	_, err = r.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(r.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send incident to SQS: %w", err)
	}

	return nil
}
