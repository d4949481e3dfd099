package dynamodb

import (
	"context"
	"fmt"

	pkgerrors "pulse-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Sequence implements the shared id counter with an atomic ADD on a
// single counter item. Every call increments exactly once, even under
// concurrent writers.
type Sequence struct {
	client    *dynamodb.Client
	tableName string
}

// NewSequence creates a DynamoDB-backed sequence
func NewSequence(client *dynamodb.Client, tableName string) *Sequence {
	return &Sequence{
		client:    client,
		tableName: tableName,
	}
}

// Next increments the counter and returns the new value
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: counterPK},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
		UpdateExpression: aws.String("ADD #c :one"),
		ExpressionAttributeNames: map[string]string{
			"#c": "Counter",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("increment id counter", err)
	}

	var counter int64
	if err := attributevalue.Unmarshal(out.Attributes["Counter"], &counter); err != nil {
		return 0, fmt.Errorf("failed to read counter value: %w", err)
	}
	return counter, nil
}
