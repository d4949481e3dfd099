package file

import (
	"context"

	"pulse-backend/domain/core/entities"
	pkgerrors "pulse-backend/pkg/errors"
)

// ResolveUser returns the public user for id, or a NotFound error
func (s *Store) ResolveUser(ctx context.Context, id string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.ID == id {
			u := a.User
			return &u, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

// ListUsers returns every registered user in registration order
func (s *Store) ListUsers(ctx context.Context) ([]*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*entities.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		u := a.User
		users = append(users, &u)
	}
	return users, nil
}

// CreateUser persists a new account. Emails and handles are unique
// case-insensitively; a collision fails with Conflict before anything
// is written.
func (s *Store) CreateUser(ctx context.Context, user *entities.AuthUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == user.Email {
			return pkgerrors.NewConflictError("email already registered")
		}
		if a.Handle == user.Handle {
			return pkgerrors.NewConflictError("handle already taken")
		}
	}

	copied := *user
	s.accounts = append(s.accounts, &copied)
	return s.flushUsers()
}

// FindByIdentifier looks an account up by email or handle
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (*entities.AuthUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == identifier || a.Handle == identifier {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

// UpdateProfile applies a partial profile update and returns the
// resulting public user
func (s *Store) UpdateProfile(ctx context.Context, userID string, name, profilePicture *string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.ID != userID {
			continue
		}
		if name != nil {
			a.Name = *name
		}
		if profilePicture != nil {
			a.ProfilePicture = *profilePicture
		}
		if err := s.flushUsers(); err != nil {
			return nil, err
		}
		u := a.User
		return &u, nil
	}
	return nil, pkgerrors.NewNotFoundError("user")
}
