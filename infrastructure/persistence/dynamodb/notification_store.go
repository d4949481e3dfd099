package dynamodb

import (
	"context"
	"fmt"

	"pulse-backend/domain/core/entities"
	pkgerrors "pulse-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// transactWriteLimit is the DynamoDB cap on items per transaction
const transactWriteLimit = 100

// NotificationStore implements the notification port on DynamoDB.
// Notifications live under the recipient's partition with a
// time-ordered sort key, so the inbox read is one descending query.
type NotificationStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNotificationStore creates a DynamoDB notification store
func NewNotificationStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *NotificationStore {
	return &NotificationStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// notificationItem is the DynamoDB item structure for a notification
type notificationItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	EntityType     string `dynamodbav:"EntityType"`
	NotificationID string `dynamodbav:"NotificationID"`
	RecipientID    string `dynamodbav:"RecipientID"`
	ActorID        string `dynamodbav:"ActorID"`
	Kind           string `dynamodbav:"Kind"`
	PostID         string `dynamodbav:"PostID,omitempty"`
	CreatedAt      int64  `dynamodbav:"CreatedAt"`
	Read           bool   `dynamodbav:"IsRead"`
}

// Append persists a single notification
func (s *NotificationStore) Append(ctx context.Context, n *entities.Notification) error {
	av, err := attributevalue.MarshalMap(toNotificationItem(n))
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save notification", err)
	}
	return nil
}

// AppendBatch persists a fan-out batch in one transaction, so the
// whole batch lands or none of it does. Fan-outs beyond the DynamoDB
// transaction cap are split into full-size chunks.
func (s *NotificationStore) AppendBatch(ctx context.Context, batch []*entities.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	for start := 0; start < len(batch); start += transactWriteLimit {
		end := start + transactWriteLimit
		if end > len(batch) {
			end = len(batch)
		}

		items := make([]types.TransactWriteItem, 0, end-start)
		for _, n := range batch[start:end] {
			av, err := attributevalue.MarshalMap(toNotificationItem(n))
			if err != nil {
				return fmt.Errorf("failed to marshal notification: %w", err)
			}
			items = append(items, types.TransactWriteItem{
				Put: &types.Put{
					TableName: aws.String(s.tableName),
					Item:      av,
				},
			})
		}

		if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items,
		}); err != nil {
			return pkgerrors.NewDatabaseError("save notification batch", err)
		}
	}

	s.logger.Debug("notification batch saved", zap.Int("count", len(batch)))
	return nil
}

// ByRecipient returns all notifications addressed to userID, newest
// first
func (s *NotificationStore) ByRecipient(ctx context.Context, userID string) ([]*entities.Notification, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(notifPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build notification query: %w", err)
	}

	list := make([]*entities.Notification, 0)
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query notifications", err)
		}

		for _, raw := range out.Items {
			var item notificationItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
			}
			list = append(list, &entities.Notification{
				ID:          item.NotificationID,
				RecipientID: item.RecipientID,
				ActorID:     item.ActorID,
				Kind:        entities.NotificationKind(item.Kind),
				PostID:      item.PostID,
				CreatedAt:   item.CreatedAt,
				Read:        item.Read,
			})
		}

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return list, nil
}

// MarkAllRead flags every notification addressed to userID as read
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	list, err := s.ByRecipient(ctx, userID)
	if err != nil {
		return err
	}

	update := expression.Set(expression.Name("IsRead"), expression.Value(true))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("failed to build read update: %w", err)
	}

	for _, n := range list {
		if n.Read {
			continue
		}

		_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &types.AttributeValueMemberS{Value: timeOrderedSK(notifPrefix, n.CreatedAt, n.ID)},
			},
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("mark notification read", err)
		}
	}
	return nil
}

func toNotificationItem(n *entities.Notification) notificationItem {
	return notificationItem{
		PK:             userPK(n.RecipientID),
		SK:             timeOrderedSK(notifPrefix, n.CreatedAt, n.ID),
		EntityType:     "NOTIFICATION",
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		ActorID:        n.ActorID,
		Kind:           string(n.Kind),
		PostID:         n.PostID,
		CreatedAt:      n.CreatedAt,
		Read:           n.Read,
	}
}
