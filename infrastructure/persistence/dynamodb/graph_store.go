package dynamodb

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "pulse-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// GraphStore implements the follow-graph port on DynamoDB. Each edge is
// one item keyed follower-side; GSI1 mirrors it followed-side so both
// directions are single queries.
type GraphStore struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewGraphStore creates a DynamoDB graph store
func NewGraphStore(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *GraphStore {
	return &GraphStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// edgeItem is the DynamoDB item structure for a follow edge
type edgeItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	EntityType  string `dynamodbav:"EntityType"`
	FollowerID  string `dynamodbav:"FollowerID"`
	FollowingID string `dynamodbav:"FollowingID"`
}

// AddEdge creates the follower → following edge. A conditional put
// keeps the edge set duplicate-free: re-adding an existing pair is a
// no-op.
func (s *GraphStore) AddEdge(ctx context.Context, followerID, followingID string) error {
	item := edgeItem{
		PK:          userPK(followerID),
		SK:          followPrefix + followingID,
		GSI1PK:      userPK(followingID),
		GSI1SK:      followerPrefix + followerID,
		EntityType:  "FOLLOW",
		FollowerID:  followerID,
		FollowingID: followingID,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal edge: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil
		}
		return pkgerrors.NewDatabaseError("add follow edge", err)
	}
	return nil
}

// RemoveEdge deletes the edge; removing a missing edge is a no-op
func (s *GraphStore) RemoveEdge(ctx context.Context, followerID, followingID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(followerID)},
			"SK": &types.AttributeValueMemberS{Value: followPrefix + followingID},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("remove follow edge", err)
	}
	return nil
}

// HasEdge reports whether the ordered pair exists
func (s *GraphStore) HasEdge(ctx context.Context, followerID, followingID string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(followerID)},
			"SK": &types.AttributeValueMemberS{Value: followPrefix + followingID},
		},
	})
	if err != nil {
		return false, pkgerrors.NewDatabaseError("check follow edge", err)
	}
	return len(out.Item) > 0, nil
}

// FollowerIDs returns the ids of users following userID, via GSI1
func (s *GraphStore) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("GSI1SK").BeginsWith(followerPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build follower query: %w", err)
	}

	ids := make([]string, 0)
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			IndexName:                 aws.String(s.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query followers", err)
		}

		for _, item := range out.Items {
			var edge edgeItem
			if err := attributevalue.UnmarshalMap(item, &edge); err != nil {
				return nil, fmt.Errorf("failed to unmarshal edge: %w", err)
			}
			ids = append(ids, edge.FollowerID)
		}

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return ids, nil
}

// FollowingIDs returns the ids userID follows, from the base table
func (s *GraphStore) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(followPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build following query: %w", err)
	}

	ids := make([]string, 0)
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query following", err)
		}

		for _, item := range out.Items {
			var edge edgeItem
			if err := attributevalue.UnmarshalMap(item, &edge); err != nil {
				return nil, fmt.Errorf("failed to unmarshal edge: %w", err)
			}
			ids = append(ids, edge.FollowingID)
		}

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return ids, nil
}
