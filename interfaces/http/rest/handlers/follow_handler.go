package handlers

import (
	"net/http"

	"pulse-backend/application/services"
	"pulse-backend/domain/core/entities"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/common"
	"pulse-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FollowHandler handles follow-graph requests
type FollowHandler struct {
	graph  *services.GraphService
	logger *zap.Logger
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(graph *services.GraphService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{
		graph:  graph,
		logger: logger,
	}
}

// ToggleFollowRequest represents the request body for toggling a follow
type ToggleFollowRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ToggleFollowResponse reports the resulting edge state
type ToggleFollowResponse struct {
	Following bool `json:"following"`
}

// UsersResponse carries a list of public users
type UsersResponse struct {
	Users []*entities.User `json:"users"`
}

// ToggleFollow handles POST /follows
func (h *FollowHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req ToggleFollowRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	following, err := h.graph.ToggleFollow(r.Context(), userCtx.UserID, req.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ToggleFollowResponse{Following: following})
}

// ListFollowers handles GET /users/{userID}/followers
func (h *FollowHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	users, err := h.graph.Followers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// ListFollowing handles GET /users/{userID}/following
func (h *FollowHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	users, err := h.graph.Following(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UsersResponse{Users: users})
}
