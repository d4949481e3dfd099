package handlers

import (
	"net/http"

	"pulse-backend/application/services"
	"pulse-backend/domain/core/entities"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/common"

	"go.uber.org/zap"
)

// NotificationHandler serves the viewer's notification inbox
type NotificationHandler struct {
	notifications *services.NotificationService
	logger        *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// NotificationsResponse carries the viewer's notifications
type NotificationsResponse struct {
	Notifications []*entities.Notification `json:"notifications"`
}

// ListNotifications handles GET /notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	list, err := h.notifications.NotificationsFor(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, NotificationsResponse{Notifications: list})
}

// MarkAllRead handles POST /notifications/read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), userCtx.UserID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
