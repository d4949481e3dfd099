package handlers

import (
	"net/http"

	"pulse-backend/application/services"
	"pulse-backend/domain/core/entities"
	"pulse-backend/pkg/common"
	"pulse-backend/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	identity *services.IdentityService
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		logger:   logger,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Handle   string `json:"handle" validate:"required,min=2,max=31"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// SessionResponse carries the authenticated user and their session
// token
type SessionResponse struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.identity.Register(r.Context(), req.Name, req.Handle, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, SessionResponse{User: user, Token: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.identity.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, SessionResponse{User: user, Token: token})
}
