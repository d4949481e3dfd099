package entities

import pkgerrors "pulse-backend/pkg/errors"

// NotificationKind identifies the action that produced a notification
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
	NotificationPost    NotificationKind = "post"
)

// Notification records that an actor did something a recipient should
// hear about. Created only as a side effect of another mutation and
// mutated only by mark-all-read.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"userId"`
	ActorID     string           `json:"actorId"`
	Kind        NotificationKind `json:"type"`
	PostID      string           `json:"postId,omitempty"`
	CreatedAt   int64            `json:"createdAt"`
	Read        bool             `json:"read"`
}

// NewNotification creates an unread notification
func NewNotification(id, recipientID, actorID string, kind NotificationKind, postID string, createdAt int64) (*Notification, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("notification id cannot be empty")
	}
	if recipientID == "" {
		return nil, pkgerrors.NewValidationError("recipientID cannot be empty")
	}
	if actorID == "" {
		return nil, pkgerrors.NewValidationError("actorID cannot be empty")
	}

	switch kind {
	case NotificationLike, NotificationComment, NotificationFollow, NotificationPost:
	default:
		return nil, pkgerrors.NewValidationError("invalid notification kind")
	}

	return &Notification{
		ID:          id,
		RecipientID: recipientID,
		ActorID:     actorID,
		Kind:        kind,
		PostID:      postID,
		CreatedAt:   createdAt,
		Read:        false,
	}, nil
}
