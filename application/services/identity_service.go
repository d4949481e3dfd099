package services

import (
	"context"
	"fmt"
	"strings"

	"pulse-backend/application/ports"
	"pulse-backend/domain/config"
	"pulse-backend/domain/core/entities"
	"pulse-backend/pkg/auth"
	pkgerrors "pulse-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityService owns account registration, credential checks, and
// profile updates. Session tokens are minted here so handlers never
// touch the signing key.
type IdentityService struct {
	users  ports.UserRepository
	tokens *auth.TokenManager
	limits *config.Holder
	logger *zap.Logger
}

// NewIdentityService creates an identity service
func NewIdentityService(
	users ports.UserRepository,
	tokens *auth.TokenManager,
	limits *config.Holder,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		users:  users,
		tokens: tokens,
		limits: limits,
		logger: logger,
	}
}

// Register creates an account and returns the public user plus a
// session token. Handles and emails are unique case-insensitively; the
// avatar color cycles through the configured palette.
func (s *IdentityService) Register(ctx context.Context, name, handle, email, password string) (*entities.User, string, error) {
	cfg := s.limits.Get()

	name = strings.TrimSpace(name)
	handle = entities.NormalizeHandle(handle)
	email = entities.NormalizeEmail(email)

	if name == "" {
		return nil, "", pkgerrors.NewValidationError("name cannot be empty")
	}
	if len([]rune(name)) > cfg.MaxNameLength {
		return nil, "", pkgerrors.NewValidationError(fmt.Sprintf("name exceeds maximum length of %d", cfg.MaxNameLength))
	}
	if l := len(handle); l < cfg.MinHandleLength || l > cfg.MaxHandleLength {
		return nil, "", pkgerrors.NewValidationError(fmt.Sprintf("handle must be %d-%d characters", cfg.MinHandleLength, cfg.MaxHandleLength))
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", pkgerrors.NewValidationError("email is not valid")
	}
	if len(password) < 8 {
		return nil, "", pkgerrors.NewValidationError("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", pkgerrors.Wrap(err, "failed to hash password")
	}

	existing, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, "", err
	}

	account := &entities.AuthUser{
		User: entities.User{
			ID:          uuid.New().String(),
			Handle:      handle,
			Name:        name,
			AvatarColor: cfg.AvatarPalette[len(existing)%len(cfg.AvatarPalette)],
		},
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(account.ID, account.Handle)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		zap.String("userID", account.ID),
		zap.String("handle", account.Handle),
	)
	return &account.User, token, nil
}

// Login checks credentials against the stored hash and returns a fresh
// session token. Unknown identifiers and wrong passwords both come back
// as the same Unauthorized error.
func (s *IdentityService) Login(ctx context.Context, identifier, password string) (*entities.User, string, error) {
	account, err := s.users.FindByIdentifier(ctx, strings.TrimSpace(strings.ToLower(identifier)))
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, "", pkgerrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, "", err
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, "", pkgerrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.tokens.Generate(account.ID, account.Handle)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", zap.String("userID", account.ID))
	return &account.User, token, nil
}

// Profile returns the public user for id
func (s *IdentityService) Profile(ctx context.Context, userID string) (*entities.User, error) {
	return s.users.ResolveUser(ctx, userID)
}

// UpdateProfile applies a partial update. Nil fields are left untouched;
// an empty profile picture clears it.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, name, profilePicture *string) (*entities.User, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, pkgerrors.NewValidationError("name cannot be empty")
		}
		if max := s.limits.Get().MaxNameLength; len([]rune(trimmed)) > max {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("name exceeds maximum length of %d", max))
		}
		name = &trimmed
	}

	user, err := s.users.UpdateProfile(ctx, userID, name, profilePicture)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("userID", userID))
	return user, nil
}
