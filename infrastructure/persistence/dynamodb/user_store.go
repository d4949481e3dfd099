package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pulse-backend/domain/core/entities"
	pkgerrors "pulse-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// UserStore implements the user repository on DynamoDB. The profile
// item carries the account; email and handle uniqueness is enforced by
// marker items written in the same transaction as the profile.
type UserStore struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewUserStore creates a DynamoDB user store
func NewUserStore(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *UserStore {
	return &UserStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// accountItem is the DynamoDB item structure for an account
type accountItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	GSI1PK         string `dynamodbav:"GSI1PK"`
	GSI1SK         string `dynamodbav:"GSI1SK"`
	EntityType     string `dynamodbav:"EntityType"`
	UserID         string `dynamodbav:"UserID"`
	Handle         string `dynamodbav:"Handle"`
	Name           string `dynamodbav:"Name"`
	AvatarColor    string `dynamodbav:"AvatarColor"`
	ProfilePicture string `dynamodbav:"ProfilePicture,omitempty"`
	Email          string `dynamodbav:"Email"`
	PasswordHash   string `dynamodbav:"PasswordHash"`
}

// uniqueItem reserves an email or handle for a user id
type uniqueItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	UserID string `dynamodbav:"UserID"`
}

// ResolveUser returns the public user for id, or a NotFound error
func (s *UserStore) ResolveUser(ctx context.Context, id string) (*entities.User, error) {
	account, err := s.accountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &account.User, nil
}

// ListUsers returns every registered user via the account GSI partition
func (s *UserStore) ListUsers(ctx context.Context) ([]*entities.User, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(accountPartition))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build account query: %w", err)
	}

	users := make([]*entities.User, 0)
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
			return nil, pkgerrors.NewDatabaseError("query accounts", err)
		}

		for _, raw := range out.Items {
			var item accountItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal account: %w", err)
			}
			u := item.toEntity().User
			users = append(users, &u)
		}

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return users, nil
}

// CreateUser persists a new account. The profile and both uniqueness
// markers are written in one transaction with existence conditions, so
// a duplicate email or handle fails the whole write with Conflict.
func (s *UserStore) CreateUser(ctx context.Context, user *entities.AuthUser) error {
	profile := accountItem{
		PK:             userPK(user.ID),
		SK:             profileSK,
		GSI1PK:         accountPartition,
		GSI1SK:         userPK(user.ID),
		EntityType:     "ACCOUNT",
		UserID:         user.ID,
		Handle:         user.Handle,
		Name:           user.Name,
		AvatarColor:    user.AvatarColor,
		ProfilePicture: user.ProfilePicture,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
	}

	profileAV, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.tableName),
				Item:                profileAV,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		},
	}

	for _, marker := range []uniqueItem{
		{PK: uniquePrefix + "EMAIL#" + user.Email, SK: metadataSK, UserID: user.ID},
		{PK: uniquePrefix + "HANDLE#" + user.Handle, SK: metadataSK, UserID: user.ID},
	} {
		av, err := attributevalue.MarshalMap(marker)
		if err != nil {
			return fmt.Errorf("failed to marshal uniqueness marker: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.tableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		})
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	}); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return pkgerrors.NewConflictError("email or handle already registered")
				}
			}
		}
		return pkgerrors.NewDatabaseError("create account", err)
	}

	s.logger.Info("account created",
		zap.String("userID", user.ID),
		zap.String("handle", user.Handle),
	)
	return nil
}

// FindByIdentifier looks an account up by email or handle through the
// uniqueness markers
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*entities.AuthUser, error) {
	markerPK := uniquePrefix + "HANDLE#" + identifier
	if strings.Contains(identifier, "@") {
		markerPK = uniquePrefix + "EMAIL#" + identifier
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: markerPK},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get uniqueness marker", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var marker uniqueItem
	if err := attributevalue.UnmarshalMap(out.Item, &marker); err != nil {
		return nil, fmt.Errorf("failed to unmarshal uniqueness marker: %w", err)
	}

	return s.accountByID(ctx, marker.UserID)
}

// UpdateProfile applies a partial profile update and returns the
// resulting public user
func (s *UserStore) UpdateProfile(ctx context.Context, userID string, name, profilePicture *string) (*entities.User, error) {
	if name == nil && profilePicture == nil {
		return s.ResolveUser(ctx, userID)
	}

	var update expression.UpdateBuilder
	if name != nil {
		update = update.Set(expression.Name("Name"), expression.Value(*name))
	}
	if profilePicture != nil {
		update = update.Set(expression.Name("ProfilePicture"), expression.Value(*profilePicture))
	}
	cond := expression.AttributeExists(expression.Name("PK"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile update: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, pkgerrors.NewNotFoundError("user")
		}
		return nil, pkgerrors.NewDatabaseError("update profile", err)
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	account := item.toEntity()
	return &account.User, nil
}

func (s *UserStore) accountByID(ctx context.Context, id string) (*entities.AuthUser, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id)},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get account", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return item.toEntity(), nil
}

func (i *accountItem) toEntity() *entities.AuthUser {
	return &entities.AuthUser{
		User: entities.User{
			ID:             i.UserID,
			Handle:         i.Handle,
			Name:           i.Name,
			AvatarColor:    i.AvatarColor,
			ProfilePicture: i.ProfilePicture,
		},
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
	}
}
