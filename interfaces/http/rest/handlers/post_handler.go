package handlers

import (
	"net/http"

	"pulse-backend/application/services"
	"pulse-backend/domain/core/entities"
	"pulse-backend/domain/core/valueobjects"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/common"
	"pulse-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler handles post, like, and comment requests
type PostHandler struct {
	engagement *services.EngagementService
	logger     *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(engagement *services.EngagementService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		engagement: engagement,
		logger:     logger,
	}
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required"`
	Media   *struct {
		URL  string `json:"url" validate:"required,uri"`
		Kind string `json:"kind" validate:"required,oneof=image video"`
	} `json:"media,omitempty"`
}

// CreateCommentRequest represents the request body for commenting
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentsResponse carries a post's comments
type CommentsResponse struct {
	Comments []*entities.Comment `json:"comments"`
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req CreatePostRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	var media *valueobjects.MediaRef
	if req.Media != nil {
		media, err = valueobjects.NewMediaRef(req.Media.URL, valueobjects.MediaKind(req.Media.Kind))
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	post, err := h.engagement.CreatePost(r.Context(), userCtx.UserID, req.Content, media)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, post)
}

// ToggleLike handles POST /posts/{postID}/likes
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	postID := chi.URLParam(r, "postID")

	post, err := h.engagement.ToggleLike(r.Context(), userCtx.UserID, postID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, post)
}

// AddComment handles POST /posts/{postID}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req CreateCommentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	postID := chi.URLParam(r, "postID")

	comment, err := h.engagement.AddComment(r.Context(), userCtx.UserID, postID, req.Content)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /posts/{postID}/comments
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	comments, err := h.engagement.CommentsForPost(r.Context(), postID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, CommentsResponse{Comments: comments})
}
