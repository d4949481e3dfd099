package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated caller through a request
type UserContext struct {
	UserID string
	Handle string
}

type contextKey struct{}

var userContextKey = contextKey{}

// ErrNoUserInContext indicates the request was not authenticated
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext attaches the authenticated user to a context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from a context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
