package services

import (
	"context"
	"fmt"
	"sort"

	"pulse-backend/application/ports"
	"pulse-backend/domain/config"
	"pulse-backend/domain/core/entities"
	"pulse-backend/domain/core/valueobjects"
	pkgerrors "pulse-backend/pkg/errors"
	"pulse-backend/pkg/utils"

	"go.uber.org/zap"
)

// EngagementService owns post creation, likes, and comments. Every
// mutation validates its inputs before the first write so a failure
// never leaves partial state behind.
type EngagementService struct {
	content  ports.ContentStore
	graph    ports.GraphStore
	users    ports.UserDirectory
	seq      ports.Sequence
	notifier *NotificationService
	limits   *config.Holder
	logger   *zap.Logger
}

// NewEngagementService creates an engagement service
func NewEngagementService(
	content ports.ContentStore,
	graph ports.GraphStore,
	users ports.UserDirectory,
	seq ports.Sequence,
	notifier *NotificationService,
	limits *config.Holder,
	logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		content:  content,
		graph:    graph,
		users:    users,
		seq:      seq,
		notifier: notifier,
		limits:   limits,
		logger:   logger,
	}
}

// CreatePost publishes a post and fans a notification out to every
// current follower of the author. The follower set is captured at the
// moment of posting; later follows do not backfill.
func (s *EngagementService) CreatePost(
	ctx context.Context,
	authorID, rawContent string,
	media *valueobjects.MediaRef,
) (*entities.Post, error) {
	if _, err := s.users.ResolveUser(ctx, authorID); err != nil {
		return nil, err
	}

	content, err := valueobjects.NewContent(rawContent, s.limits.Get().MaxPostLength)
	if err != nil {
		return nil, err
	}

	followerIDs, err := s.graph.FollowerIDs(ctx, authorID)
	if err != nil {
		return nil, err
	}

	next, err := s.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	post, err := entities.NewPost(
		fmt.Sprintf("p%d", next),
		authorID,
		content,
		media,
		utils.NowMillis(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.content.SavePost(ctx, post); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyBatch(ctx, followerIDs, authorID, entities.NotificationPost, post.ID); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		zap.String("postID", post.ID),
		zap.String("authorID", authorID),
		zap.Int("followers", len(followerIDs)),
	)
	return post, nil
}

// ToggleLike flips userID's membership in the post's like-set and
// returns the updated post. Adding a like notifies the post author
// unless the liker is the author; removing one never notifies.
// Self-likes can be switched off via the domain limits.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID string) (*entities.Post, error) {
	post, err := s.content.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if userID == post.AuthorID && !s.limits.Get().AllowSelfLike {
		return nil, pkgerrors.NewValidationError("liking your own post is disabled")
	}

	liked := post.ToggleLike(userID)
	if err := s.content.SetLikeSet(ctx, post.ID, post.LikeUserIDs); err != nil {
		return nil, err
	}

	if liked && post.AuthorID != userID {
		if err := s.notifier.Notify(ctx, post.AuthorID, userID, entities.NotificationLike, post.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("like toggled",
		zap.String("postID", post.ID),
		zap.String("userID", userID),
		zap.Bool("liked", liked),
	)
	return post, nil
}

// AddComment appends a comment to a post. The post must exist before
// anything is written. The author is notified unless they commented on
// their own post.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID, rawContent string) (*entities.Comment, error) {
	content, err := valueobjects.NewContent(rawContent, s.limits.Get().MaxCommentLength)
	if err != nil {
		return nil, err
	}

	post, err := s.content.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	next, err := s.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := entities.NewComment(
		fmt.Sprintf("c%d", next),
		post.ID,
		userID,
		content,
		utils.NowMillis(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.content.AppendComment(ctx, comment); err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		if err := s.notifier.Notify(ctx, post.AuthorID, userID, entities.NotificationComment, post.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("comment added",
		zap.String("commentID", comment.ID),
		zap.String("postID", post.ID),
		zap.String("userID", userID),
	)
	return comment, nil
}

// CommentsForPost returns a post's comments oldest first. The post must
// exist.
func (s *EngagementService) CommentsForPost(ctx context.Context, postID string) ([]*entities.Comment, error) {
	if _, err := s.content.PostByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.content.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments, nil
}
