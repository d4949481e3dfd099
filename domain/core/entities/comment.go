package entities

import (
	"pulse-backend/domain/core/valueobjects"
	pkgerrors "pulse-backend/pkg/errors"
)

// Comment is an append-only reply to a post. Comments are never edited
// or deleted.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// NewComment creates a comment; the caller is responsible for checking
// that PostID resolves to an existing post.
func NewComment(id, postID, authorID string, content valueobjects.Content, createdAt int64) (*Comment, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("comment id cannot be empty")
	}
	if postID == "" {
		return nil, pkgerrors.NewValidationError("postID cannot be empty")
	}
	if authorID == "" {
		return nil, pkgerrors.NewValidationError("authorID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	return &Comment{
		ID:        id,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content.String(),
		CreatedAt: createdAt,
	}, nil
}
