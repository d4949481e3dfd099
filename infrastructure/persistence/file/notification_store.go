package file

import (
	"context"

	"pulse-backend/domain/core/entities"
)

// Append persists a single notification, newest first
func (s *Store) Append(ctx context.Context, n *entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *n
	s.notifications = append([]*entities.Notification{&copied}, s.notifications...)
	return s.flushApp()
}

// AppendBatch persists a fan-out batch behind one lock acquisition and
// one flush, so the batch lands atomically or not at all.
func (s *Store) AppendBatch(ctx context.Context, batch []*entities.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prepended := make([]*entities.Notification, 0, len(batch)+len(s.notifications))
	for i := len(batch) - 1; i >= 0; i-- {
		copied := *batch[i]
		prepended = append(prepended, &copied)
	}
	s.notifications = append(prepended, s.notifications...)
	return s.flushApp()
}

// ByRecipient returns all notifications addressed to userID, newest
// inserted first
func (s *Store) ByRecipient(ctx context.Context, userID string) ([]*entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*entities.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientID == userID {
			copied := *n
			list = append(list, &copied)
		}
	}
	return list, nil
}

// MarkAllRead flags every notification addressed to userID as read.
// Other users' notifications are untouched.
func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, n := range s.notifications {
		if n.RecipientID == userID && !n.Read {
			n.Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flushApp()
}
