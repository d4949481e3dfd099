package ports

import (
	"context"

	"pulse-backend/domain/core/entities"
)

// GraphStore owns the set of directed follow edges.
// Implementations must maintain the at-most-one-edge-per-ordered-pair
// invariant: AddEdge on an existing pair is a no-op.
type GraphStore interface {
	// AddEdge creates the follower → following edge
	AddEdge(ctx context.Context, followerID, followingID string) error

	// RemoveEdge deletes the edge; removing a missing edge is a no-op
	RemoveEdge(ctx context.Context, followerID, followingID string) error

	// HasEdge reports whether the ordered pair exists
	HasEdge(ctx context.Context, followerID, followingID string) (bool, error)

	// FollowerIDs returns the ids of users following userID
	FollowerIDs(ctx context.Context, userID string) ([]string, error)

	// FollowingIDs returns the ids userID follows
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// ContentStore owns posts (including their like-sets) and comments.
// Posts are returned newest-inserted-first so callers can rely on a
// stable tie-break when sorting by creation time.
type ContentStore interface {
	// SavePost persists a new post
	SavePost(ctx context.Context, post *entities.Post) error

	// PostByID retrieves a post, or a NotFound error
	PostByID(ctx context.Context, id string) (*entities.Post, error)

	// PostsByAuthor returns all posts by a single author
	PostsByAuthor(ctx context.Context, authorID string) ([]*entities.Post, error)

	// PostsByAuthors returns all posts whose author is in authorIDs
	PostsByAuthors(ctx context.Context, authorIDs []string) ([]*entities.Post, error)

	// SetLikeSet replaces a post's like-set
	SetLikeSet(ctx context.Context, postID string, likerIDs []string) error

	// AppendComment persists a new comment
	AppendComment(ctx context.Context, comment *entities.Comment) error

	// CommentsByPost returns a post's comments ordered oldest first
	CommentsByPost(ctx context.Context, postID string) ([]*entities.Comment, error)

	// CommentsByPosts returns the comments of every post in postIDs
	CommentsByPosts(ctx context.Context, postIDs []string) ([]*entities.Comment, error)
}

// NotificationStore owns per-recipient notification records
type NotificationStore interface {
	// Append persists a single notification
	Append(ctx context.Context, n *entities.Notification) error

	// AppendBatch persists a fan-out batch in one store operation
	AppendBatch(ctx context.Context, batch []*entities.Notification) error

	// ByRecipient returns all notifications addressed to userID
	ByRecipient(ctx context.Context, userID string) ([]*entities.Notification, error)

	// MarkAllRead flags every notification addressed to userID as read
	MarkAllRead(ctx context.Context, userID string) error
}

// Sequence is the shared monotonic counter used to mint record ids.
// Implementations must increment atomically, exactly once per call.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// UserDirectory is the read side of the identity collaborator
type UserDirectory interface {
	// ResolveUser returns the user for id, or a NotFound error
	ResolveUser(ctx context.Context, id string) (*entities.User, error)

	// ListUsers returns every registered user
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

// UserRepository extends the directory with the write operations the
// identity service needs
type UserRepository interface {
	UserDirectory

	// CreateUser persists a new account; fails with Conflict if the
	// email or handle is already taken
	CreateUser(ctx context.Context, user *entities.AuthUser) error

	// FindByIdentifier looks an account up by email or handle
	FindByIdentifier(ctx context.Context, identifier string) (*entities.AuthUser, error)

	// UpdateProfile applies a partial profile update and returns the
	// resulting public user
	UpdateProfile(ctx context.Context, userID string, name, profilePicture *string) (*entities.User, error)
}
