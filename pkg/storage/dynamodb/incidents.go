package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

const incidentsGSI = "gsi1pk-occurred_at-index"
const incidentsPartition = "INCIDENTS"

// RecordIncident stores a compensation-failure incident for manual review.
func (s *Store) RecordIncident(ctx context.Context, incident *models.Incident) error {
	item, err := attributevalue.MarshalMap(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident: %w", err)
	}
	// Constant partition key so incidents can be listed newest-first.
	item["gsi1pk"] = &types.AttributeValueMemberS{Value: incidentsPartition}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.IncidentsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to record incident in DynamoDB: %w", err)
	}
	return nil
}

// ListIncidents returns the most recent incidents, newest first.
func (s *Store) ListIncidents(ctx context.Context, limit int32) ([]models.Incident, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.IncidentsTableName),
		IndexName:              aws.String(incidentsGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: incidentsPartition},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}

	var incidents []models.Incident
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incidents: %w", err)
	}
	return incidents, nil
}
