package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	pkgerrors "pulse-backend/pkg/errors"
)

// Content is a value object for user-authored text (posts and comments).
// It is trimmed at construction and guaranteed non-empty and within the
// configured length bound.
type Content struct {
	text string
}

// NewContent creates content with validation. maxLength is expressed in
// runes, not bytes.
func NewContent(raw string, maxLength int) (Content, error) {
	text := strings.TrimSpace(raw)

	if text == "" {
		return Content{}, pkgerrors.NewValidationError("content cannot be empty")
	}

	if maxLength > 0 && utf8.RuneCountInString(text) > maxLength {
		return Content{}, pkgerrors.NewValidationError(
			fmt.Sprintf("content exceeds maximum length of %d characters", maxLength))
	}

	return Content{text: text}, nil
}

// String returns the content text
func (c Content) String() string {
	return c.text
}

// IsEmpty checks if content is empty
func (c Content) IsEmpty() bool {
	return c.text == ""
}

// Equals checks if two contents are equal
func (c Content) Equals(other Content) bool {
	return c.text == other.text
}
