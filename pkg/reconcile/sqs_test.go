package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

type capturingSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (c *capturingSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	c.input = params
	return &sqs.SendMessageOutput{}, c.err
}

func TestSQSReporterReport(t *testing.T) {
	client := &capturingSQS{}
	reporter := NewSQSReporter(client, "https://sqs.test/queue")

	incident := NewIncident("user-1", "create_grocery_list", "list-1", 50, errors.New("delete rejected"))
	require.NoError(t, reporter.Report(context.Background(), incident))

	require.NotNil(t, client.input)
	assert.Equal(t, "https://sqs.test/queue", *client.input.QueueUrl)

	var sent models.Incident
	require.NoError(t, json.Unmarshal([]byte(*client.input.MessageBody), &sent))
	assert.NotEmpty(t, sent.ID)
	assert.Equal(t, "user-1", sent.UserID)
	assert.Equal(t, models.Credits(50), sent.Amount)
	assert.Equal(t, "delete rejected", sent.Reason)
}

func TestSQSReporterSendFailure(t *testing.T) {
	client := &capturingSQS{err: errors.New("queue unreachable")}
	reporter := NewSQSReporter(client, "https://sqs.test/queue")

	incident := NewIncident("user-1", "save_grocery_list", "list-1", 50, errors.New("restore rejected"))
	assert.Error(t, reporter.Report(context.Background(), incident))
}
