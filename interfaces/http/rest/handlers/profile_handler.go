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

// ProfileHandler serves public profiles and the viewer's own profile
// updates
type ProfileHandler struct {
	identity *services.IdentityService
	feed     *services.FeedService
	graph    *services.GraphService
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(identity *services.IdentityService, feed *services.FeedService, graph *services.GraphService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		identity: identity,
		feed:     feed,
		graph:    graph,
		logger:   logger,
	}
}

// UpdateProfileRequest represents the request body for a profile update
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// ProfileResponse carries a public profile with the user's posts and
// graph neighborhood
type ProfileResponse struct {
	User        *entities.User   `json:"user"`
	Posts       []*entities.Post `json:"posts"`
	Followers   []*entities.User `json:"followers"`
	Following   []*entities.User `json:"following"`
	IsFollowing bool             `json:"isFollowing"`
}

// GetProfile handles GET /profile/{userID}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.identity.Profile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	posts, err := h.feed.PostsBy(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	followers, err := h.graph.Followers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	following, err := h.graph.Following(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	isFollowing := false
	if viewer, err := auth.GetUserFromContext(r.Context()); err == nil {
		isFollowing, err = h.graph.IsFollowing(r.Context(), viewer.UserID, userID)
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	common.RespondJSON(w, http.StatusOK, ProfileResponse{
		User:        user,
		Posts:       posts,
		Followers:   followers,
		Following:   following,
		IsFollowing: isFollowing,
	})
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	user, err := h.identity.UpdateProfile(r.Context(), userCtx.UserID, req.Name, req.ProfilePicture)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, user)
}
