package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"pulse-backend/application/ports"
	"pulse-backend/domain/core/entities"

	"go.uber.org/zap"
)

// Feed is a chronological view of posts visible to one user, with the
// comments attached to those posts.
type Feed struct {
	Posts    []*entities.Post
	Comments []*entities.Comment
}

// FeedService derives feeds from the follow graph and the content
// store. It holds no state of its own; unfollowing simply changes the
// author-set on the next read.
type FeedService struct {
	graph   ports.GraphStore
	content ports.ContentStore
	logger  *zap.Logger
}

// NewFeedService creates a feed service
func NewFeedService(graph ports.GraphStore, content ports.ContentStore, logger *zap.Logger) *FeedService {
	return &FeedService{
		graph:   graph,
		content: content,
		logger:  logger,
	}
}

// FeedFor returns the posts authored by userID or anyone they follow,
// newest first, plus the comments on those posts. The author-set always
// contains userID, so a user's own posts are visible immediately.
func (s *FeedService) FeedFor(ctx context.Context, userID string) (*Feed, error) {
	followingIDs, err := s.graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(followingIDs, userID)

	posts, err := s.content.PostsByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return newerPost(posts[i], posts[j])
	})

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	comments, err := s.content.CommentsByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})

	s.logger.Debug("feed assembled",
		zap.String("userID", userID),
		zap.Int("authors", len(authorIDs)),
		zap.Int("posts", len(posts)),
		zap.Int("comments", len(comments)),
	)

	return &Feed{Posts: posts, Comments: comments}, nil
}

// PostsBy returns one author's posts, newest first
func (s *FeedService) PostsBy(ctx context.Context, authorID string) ([]*entities.Post, error) {
	posts, err := s.content.PostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return newerPost(posts[i], posts[j])
	})
	return posts, nil
}

// newerPost orders posts newest first. Timestamps collide at
// millisecond granularity; ties fall back to the shared id counter so
// the most recently created post wins regardless of which author's
// partition it came from.
func newerPost(a, b *entities.Post) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return postSequence(a.ID) > postSequence(b.ID)
}

func postSequence(id string) int64 {
	n, err := strconv.ParseInt(strings.TrimPrefix(id, "p"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
