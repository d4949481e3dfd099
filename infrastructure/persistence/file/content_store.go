package file

import (
	"context"

	"pulse-backend/domain/core/entities"
	pkgerrors "pulse-backend/pkg/errors"
)

// SavePost prepends the post so the slice stays newest-inserted-first
func (s *Store) SavePost(ctx context.Context, post *entities.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = append([]*entities.Post{clonePost(post)}, s.posts...)
	return s.flushApp()
}

// PostByID retrieves a post, or a NotFound error
func (s *Store) PostByID(ctx context.Context, id string) (*entities.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return clonePost(p), nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("post")
}

// PostsByAuthor returns all posts by a single author, newest inserted
// first
func (s *Store) PostsByAuthor(ctx context.Context, authorID string) ([]*entities.Post, error) {
	return s.PostsByAuthors(ctx, []string{authorID})
}

// PostsByAuthors returns all posts whose author is in authorIDs,
// newest inserted first
func (s *Store) PostsByAuthors(ctx context.Context, authorIDs []string) ([]*entities.Post, error) {
	authors := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*entities.Post, 0)
	for _, p := range s.posts {
		if _, ok := authors[p.AuthorID]; ok {
			posts = append(posts, clonePost(p))
		}
	}
	return posts, nil
}

// SetLikeSet replaces a post's like-set
func (s *Store) SetLikeSet(ctx context.Context, postID string, likerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.ID == postID {
			p.LikeUserIDs = append([]string{}, likerIDs...)
			return s.flushApp()
		}
	}
	return pkgerrors.NewNotFoundError("post")
}

// AppendComment persists a new comment
func (s *Store) AppendComment(ctx context.Context, comment *entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *comment
	s.comments = append(s.comments, &c)
	return s.flushApp()
}

// CommentsByPost returns a post's comments in insertion order
func (s *Store) CommentsByPost(ctx context.Context, postID string) ([]*entities.Comment, error) {
	return s.CommentsByPosts(ctx, []string{postID})
}

// CommentsByPosts returns the comments of every post in postIDs in
// insertion order
func (s *Store) CommentsByPosts(ctx context.Context, postIDs []string) ([]*entities.Comment, error) {
	wanted := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]*entities.Comment, 0)
	for _, c := range s.comments {
		if _, ok := wanted[c.PostID]; ok {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	return comments, nil
}

// clonePost copies a post so callers never alias store-internal state
func clonePost(p *entities.Post) *entities.Post {
	copied := *p
	copied.LikeUserIDs = append([]string{}, p.LikeUserIDs...)
	if p.Media != nil {
		media := *p.Media
		copied.Media = &media
	}
	return &copied
}
