package entities

import (
	"pulse-backend/domain/core/valueobjects"
	pkgerrors "pulse-backend/pkg/errors"
)

// Post is a unit of published content. Content and media are immutable
// after creation; the like-set is the only mutable field.
type Post struct {
	ID          string                  `json:"id"`
	AuthorID    string                  `json:"authorId"`
	Content     string                  `json:"content"`
	Media       *valueobjects.MediaRef  `json:"media,omitempty"`
	CreatedAt   int64                   `json:"createdAt"`
	LikeUserIDs []string                `json:"likeUserIds"`
}

// NewPost creates a post with an empty like-set
func NewPost(id, authorID string, content valueobjects.Content, media *valueobjects.MediaRef, createdAt int64) (*Post, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("post id cannot be empty")
	}
	if authorID == "" {
		return nil, pkgerrors.NewValidationError("authorID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	return &Post{
		ID:          id,
		AuthorID:    authorID,
		Content:     content.String(),
		Media:       media,
		CreatedAt:   createdAt,
		LikeUserIDs: []string{},
	}, nil
}

// LikedBy reports whether userID is in the like-set
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.LikeUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike flips the like-set membership for userID and reports the
// resulting state. Membership stays unique by construction.
func (p *Post) ToggleLike(userID string) bool {
	if p.LikedBy(userID) {
		kept := make([]string, 0, len(p.LikeUserIDs))
		for _, id := range p.LikeUserIDs {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.LikeUserIDs = kept
		return false
	}

	p.LikeUserIDs = append(p.LikeUserIDs, userID)
	return true
}

// LikeCount returns the size of the like-set
func (p *Post) LikeCount() int {
	return len(p.LikeUserIDs)
}
