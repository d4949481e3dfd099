package entities

import "strings"

// User is the public identity of an account. Created at registration,
// mutated only through profile updates, never deleted.
type User struct {
	ID             string `json:"id"`
	Handle         string `json:"handle"`
	Name           string `json:"name"`
	AvatarColor    string `json:"avatarColor"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// AuthUser extends User with the credential fields the identity
// collaborator owns. It never crosses the HTTP boundary.
type AuthUser struct {
	User
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// NormalizeHandle lowercases a handle and strips any leading @ prefix.
// Handles are unique case-insensitively.
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(strings.ToLower(handle))
	return strings.TrimLeft(handle, "@")
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
