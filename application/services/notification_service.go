package services

import (
	"context"
	"fmt"
	"sort"

	"pulse-backend/application/ports"
	"pulse-backend/domain/core/entities"
	"pulse-backend/pkg/observability"
	"pulse-backend/pkg/utils"

	"go.uber.org/zap"
)

// NotificationService owns the notification read path and the write
// path the other engines use for fan-out. It is stateless over the
// notification store.
type NotificationService struct {
	notifications ports.NotificationStore
	seq           ports.Sequence
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewNotificationService creates a notification service
func NewNotificationService(
	notifications ports.NotificationStore,
	seq ports.Sequence,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		seq:           seq,
		metrics:       metrics,
		logger:        logger,
	}
}

// Notify writes one notification record
func (s *NotificationService) Notify(
	ctx context.Context,
	recipientID, actorID string,
	kind entities.NotificationKind,
	postID string,
) error {
	n, err := s.build(ctx, recipientID, actorID, kind, postID)
	if err != nil {
		return err
	}

	if err := s.notifications.Append(ctx, n); err != nil {
		return err
	}

	s.metrics.NotificationEmitted(string(kind))
	s.logger.Debug("notification emitted",
		zap.String("recipientID", recipientID),
		zap.String("actorID", actorID),
		zap.String("kind", string(kind)),
	)
	return nil
}

// NotifyBatch writes one notification per recipient in a single store
// operation. Used by post-creation fan-out so the batch lands atomically.
func (s *NotificationService) NotifyBatch(
	ctx context.Context,
	recipientIDs []string,
	actorID string,
	kind entities.NotificationKind,
	postID string,
) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	batch := make([]*entities.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		n, err := s.build(ctx, recipientID, actorID, kind, postID)
		if err != nil {
			return err
		}
		batch = append(batch, n)
	}

	if err := s.notifications.AppendBatch(ctx, batch); err != nil {
		return err
	}

	for range batch {
		s.metrics.NotificationEmitted(string(kind))
	}
	s.metrics.ObserveFanout(len(batch))

	s.logger.Debug("notification fan-out",
		zap.String("actorID", actorID),
		zap.String("kind", string(kind)),
		zap.Int("recipients", len(batch)),
	)
	return nil
}

// NotificationsFor returns all notifications addressed to userID,
// newest first. The sort is stable so same-millisecond records keep
// insertion order.
func (s *NotificationService) NotificationsFor(ctx context.Context, userID string) ([]*entities.Notification, error) {
	list, err := s.notifications.ByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
	return list, nil
}

// MarkAllRead flags every notification addressed to userID as read.
// Calling it again is a no-op; other users' notifications are untouched.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) build(
	ctx context.Context,
	recipientID, actorID string,
	kind entities.NotificationKind,
	postID string,
) (*entities.Notification, error) {
	next, err := s.seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	return entities.NewNotification(
		fmt.Sprintf("n%d", next),
		recipientID,
		actorID,
		kind,
		postID,
		utils.NowMillis(),
	)
}
