package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"pulse-backend/domain/core/entities"
	"pulse-backend/domain/core/valueobjects"
	pkgerrors "pulse-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ContentStore implements the post/comment port on DynamoDB. A post is
// one item under its own partition, with a GSI1 projection keyed by
// author so author timelines are single queries. Comments share the
// post's partition.
type ContentStore struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewContentStore creates a DynamoDB content store
func NewContentStore(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *ContentStore {
	return &ContentStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// postItem is the DynamoDB item structure for a post
type postItem struct {
	PK          string   `dynamodbav:"PK"`
	SK          string   `dynamodbav:"SK"`
	GSI1PK      string   `dynamodbav:"GSI1PK"`
	GSI1SK      string   `dynamodbav:"GSI1SK"`
	EntityType  string   `dynamodbav:"EntityType"`
	PostID      string   `dynamodbav:"PostID"`
	AuthorID    string   `dynamodbav:"AuthorID"`
	Content     string   `dynamodbav:"Content"`
	MediaURL    string   `dynamodbav:"MediaURL,omitempty"`
	MediaKind   string   `dynamodbav:"MediaKind,omitempty"`
	CreatedAt   int64    `dynamodbav:"CreatedAt"`
	LikeUserIDs []string `dynamodbav:"LikeUserIDs"`
}

// commentItem is the DynamoDB item structure for a comment
type commentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	CommentID  string `dynamodbav:"CommentID"`
	PostID     string `dynamodbav:"PostID"`
	AuthorID   string `dynamodbav:"AuthorID"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  int64  `dynamodbav:"CreatedAt"`
}

// SavePost persists a new post
func (s *ContentStore) SavePost(ctx context.Context, post *entities.Post) error {
	item := postItem{
		PK:          postPK(post.ID),
		SK:          metadataSK,
		GSI1PK:      userPK(post.AuthorID),
		GSI1SK:      timeOrderedSK(postPrefix, post.CreatedAt, post.ID),
		EntityType:  "POST",
		PostID:      post.ID,
		AuthorID:    post.AuthorID,
		Content:     post.Content,
		CreatedAt:   post.CreatedAt,
		LikeUserIDs: post.LikeUserIDs,
	}
	if post.Media != nil {
		item.MediaURL = post.Media.URL
		item.MediaKind = string(post.Media.Kind)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save post", err)
	}

	s.logger.Debug("post saved",
		zap.String("postID", post.ID),
		zap.String("authorID", post.AuthorID),
	)
	return nil
}

// PostByID retrieves a post, or a NotFound error
func (s *ContentStore) PostByID(ctx context.Context, id string) (*entities.Post, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: postPK(id)},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get post", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("post")
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	return item.toEntity(), nil
}

// PostsByAuthor returns one author's posts, newest first
func (s *ContentStore) PostsByAuthor(ctx context.Context, authorID string) ([]*entities.Post, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(authorID))).
		And(expression.Key("GSI1SK").BeginsWith(postPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build post query: %w", err)
	}

	posts := make([]*entities.Post, 0)
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			IndexName:                 aws.String(s.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			// Time-ordered sort key, descending = newest first
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query posts", err)
		}

		for _, raw := range out.Items {
			var item postItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, item.toEntity())
		}

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return posts, nil
}

// PostsByAuthors returns all posts whose author is in authorIDs. The
// per-author queries each come back newest first; callers re-sort the
// merged result.
func (s *ContentStore) PostsByAuthors(ctx context.Context, authorIDs []string) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0)
	for _, authorID := range authorIDs {
		byAuthor, err := s.PostsByAuthor(ctx, authorID)
		if err != nil {
			return nil, err
		}
		posts = append(posts, byAuthor...)
	}
	return posts, nil
}

// SetLikeSet replaces a post's like-set
func (s *ContentStore) SetLikeSet(ctx context.Context, postID string, likerIDs []string) error {
	if likerIDs == nil {
		likerIDs = []string{}
	}

	update := expression.Set(expression.Name("LikeUserIDs"), expression.Value(likerIDs))
	cond := expression.AttributeExists(expression.Name("PK"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build like update: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: postPK(postID)},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("post")
		}
		return pkgerrors.NewDatabaseError("update like set", err)
	}
	return nil
}

// AppendComment persists a new comment under the post's partition
func (s *ContentStore) AppendComment(ctx context.Context, comment *entities.Comment) error {
	item := commentItem{
		PK:         postPK(comment.PostID),
		SK:         timeOrderedSK(commentPrefix, comment.CreatedAt, comment.ID),
		EntityType: "COMMENT",
		CommentID:  comment.ID,
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save comment", err)
	}
	return nil
}

// CommentsByPost returns a post's comments oldest first
func (s *ContentStore) CommentsByPost(ctx context.Context, postID string) ([]*entities.Comment, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(postPK(postID))).
		And(expression.Key("SK").BeginsWith(commentPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment query: %w", err)
	}

	comments := make([]*entities.Comment, 0)
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
			return nil, pkgerrors.NewDatabaseError("query comments", err)
		}

		for _, raw := range out.Items {
			var item commentItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &entities.Comment{
				ID:        item.CommentID,
				PostID:    item.PostID,
				AuthorID:  item.AuthorID,
				Content:   item.Content,
				CreatedAt: item.CreatedAt,
			})
		}

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return comments, nil
}

// CommentsByPosts returns the comments of every post in postIDs
func (s *ContentStore) CommentsByPosts(ctx context.Context, postIDs []string) ([]*entities.Comment, error) {
	comments := make([]*entities.Comment, 0)
	for _, postID := range postIDs {
		byPost, err := s.CommentsByPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		comments = append(comments, byPost...)
	}
	return comments, nil
}

func (i *postItem) toEntity() *entities.Post {
	likes := i.LikeUserIDs
	if likes == nil {
		likes = []string{}
	}

	post := &entities.Post{
		ID:          i.PostID,
		AuthorID:    i.AuthorID,
		Content:     i.Content,
		CreatedAt:   i.CreatedAt,
		LikeUserIDs: likes,
	}
	if i.MediaURL != "" {
		post.Media = &valueobjects.MediaRef{
			URL:  i.MediaURL,
			Kind: valueobjects.MediaKind(i.MediaKind),
		}
	}
	return post
}
