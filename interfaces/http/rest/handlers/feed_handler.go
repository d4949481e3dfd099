package handlers

import (
	"net/http"

	"pulse-backend/application/services"
	"pulse-backend/domain/core/entities"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/common"

	"go.uber.org/zap"
)

// FeedHandler serves the viewer's feed
type FeedHandler struct {
	feed   *services.FeedService
	logger *zap.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feed *services.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feed:   feed,
		logger: logger,
	}
}

// FeedResponse carries the viewer's posts and their comments
type FeedResponse struct {
	Posts    []*entities.Post    `json:"posts"`
	Comments []*entities.Comment `json:"comments"`
}

// GetFeed handles GET /feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	feed, err := h.feed.FeedFor(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, FeedResponse{
		Posts:    feed.Posts,
		Comments: feed.Comments,
	})
}
