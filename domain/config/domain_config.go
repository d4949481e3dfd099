package config

// DomainConfig holds tunable business rules for the social domain.
// A single instance is shared by the engines; the dynamic config
// watcher may swap in updated limits at runtime.
type DomainConfig struct {
	// Content limits
	MaxPostLength    int
	MaxCommentLength int

	// Identity limits
	MinHandleLength int
	MaxHandleLength int
	MaxNameLength   int

	// AllowSelfLike permits liking one's own post. A self-like toggles
	// the like-set but never notifies; disabling it rejects the toggle
	// before anything is written.
	AllowSelfLike bool

	// AvatarPalette is cycled through at registration
	AvatarPalette []string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxPostLength:    2000,
		MaxCommentLength: 500,
		MinHandleLength:  2,
		MaxHandleLength:  30,
		MaxNameLength:    80,
		AllowSelfLike:    true,
		AvatarPalette: []string{
			"#38bdf8", "#a855f7", "#f97316", "#22c55e", "#ec4899",
		},
	}
}
