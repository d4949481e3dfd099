package valueobjects

import (
	"strings"

	pkgerrors "pulse-backend/pkg/errors"
)

// MediaKind distinguishes the supported attachment types
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaRef is an opaque reference to an externally hosted asset.
// The platform never stores media bytes itself.
type MediaRef struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// NewMediaRef creates a media reference with validation
func NewMediaRef(url string, kind MediaKind) (*MediaRef, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, pkgerrors.NewValidationError("media url cannot be empty")
	}

	switch kind {
	case MediaImage, MediaVideo:
	default:
		return nil, pkgerrors.NewValidationError("media kind must be image or video")
	}

	return &MediaRef{URL: url, Kind: kind}, nil
}
