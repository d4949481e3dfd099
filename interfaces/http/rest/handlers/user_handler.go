package handlers

import (
	"net/http"

	"pulse-backend/application/ports"
	"pulse-backend/application/services"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles user directory requests
type UserHandler struct {
	graph     *services.GraphService
	directory ports.UserDirectory
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(graph *services.GraphService, directory ports.UserDirectory, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		graph:     graph,
		directory: directory,
		logger:    logger,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// ListSuggestions handles GET /users/suggestions
func (h *UserHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	users, err := h.graph.Suggestions(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// IsFollowing handles GET /follows/{userID} and reports whether the
// viewer follows userID
func (h *UserHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	following, err := h.graph.IsFollowing(r.Context(), userCtx.UserID, chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ToggleFollowResponse{Following: following})
}
