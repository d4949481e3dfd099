package services

import (
	"context"

	"pulse-backend/application/ports"
	"pulse-backend/domain/core/entities"
	pkgerrors "pulse-backend/pkg/errors"

	"go.uber.org/zap"
)

// GraphService maintains the directed follow graph. It is a stateless
// function layer over the graph store; all persistent state lives there.
type GraphService struct {
	graph    ports.GraphStore
	users    ports.UserDirectory
	notifier *NotificationService
	logger   *zap.Logger
}

// NewGraphService creates a graph service
func NewGraphService(
	graph ports.GraphStore,
	users ports.UserDirectory,
	notifier *NotificationService,
	logger *zap.Logger,
) *GraphService {
	return &GraphService{
		graph:    graph,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// IsFollowing reports whether the follower → following edge exists.
// No side effects; self-pairs are always false.
func (s *GraphService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, nil
	}
	return s.graph.HasEdge(ctx, followerID, followingID)
}

// ToggleFollow flips the follow edge and returns the resulting state.
// Self-follow is a silent no-op. Creating an edge emits a follow
// notification to the followed user; removing one does not notify.
func (s *GraphService) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, nil
	}

	// The followed user must exist; a dangling edge would corrupt
	// every derived read.
	if _, err := s.users.ResolveUser(ctx, followingID); err != nil {
		return false, err
	}

	exists, err := s.graph.HasEdge(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.graph.RemoveEdge(ctx, followerID, followingID); err != nil {
			return false, err
		}
		s.logger.Info("unfollowed",
			zap.String("followerID", followerID),
			zap.String("followingID", followingID),
		)
		return false, nil
	}

	if err := s.graph.AddEdge(ctx, followerID, followingID); err != nil {
		return false, err
	}

	if err := s.notifier.Notify(ctx, followingID, followerID, entities.NotificationFollow, ""); err != nil {
		return false, err
	}

	s.logger.Info("followed",
		zap.String("followerID", followerID),
		zap.String("followingID", followingID),
	)
	return true, nil
}

// Followers returns the users following userID
func (s *GraphService) Followers(ctx context.Context, userID string) ([]*entities.User, error) {
	ids, err := s.graph.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, ids)
}

// Following returns the users userID follows
func (s *GraphService) Following(ctx context.Context, userID string) ([]*entities.User, error) {
	ids, err := s.graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, ids)
}

// Suggestions returns users the viewer does not follow yet, excluding
// themselves
func (s *GraphService) Suggestions(ctx context.Context, userID string) ([]*entities.User, error) {
	all, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	followingIDs, err := s.graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	following := make(map[string]struct{}, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = struct{}{}
	}

	suggestions := make([]*entities.User, 0, len(all))
	for _, u := range all {
		if u.ID == userID {
			continue
		}
		if _, ok := following[u.ID]; ok {
			continue
		}
		suggestions = append(suggestions, u)
	}
	return suggestions, nil
}

// resolveAll maps edge endpoints back to users, skipping ids the
// directory no longer knows
func (s *GraphService) resolveAll(ctx context.Context, ids []string) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.ResolveUser(ctx, id)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
