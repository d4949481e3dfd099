package file

import (
	"context"

	"pulse-backend/domain/core/entities"
)

// AddEdge creates the follower → following edge. Adding an existing
// edge is a no-op, which keeps the edge set free of duplicates.
func (s *Store) AddEdge(ctx context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasEdgeLocked(followerID, followingID) {
		return nil
	}

	edge, err := entities.NewFollowEdge(followerID, followingID)
	if err != nil {
		return err
	}
	s.follows = append(s.follows, edge)
	return s.flushApp()
}

// RemoveEdge deletes the edge; a missing edge is a no-op
func (s *Store) RemoveEdge(ctx context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.follows {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return s.flushApp()
		}
	}
	return nil
}

// HasEdge reports whether the ordered pair exists
func (s *Store) HasEdge(ctx context.Context, followerID, followingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasEdgeLocked(followerID, followingID), nil
}

// FollowerIDs returns the ids of users following userID
func (s *Store) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for _, e := range s.follows {
		if e.FollowingID == userID {
			ids = append(ids, e.FollowerID)
		}
	}
	return ids, nil
}

// FollowingIDs returns the ids userID follows
func (s *Store) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for _, e := range s.follows {
		if e.FollowerID == userID {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

func (s *Store) hasEdgeLocked(followerID, followingID string) bool {
	for _, e := range s.follows {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true
		}
	}
	return false
}
