package valueobjects

import (
	"strings"
	"testing"

	pkgerrors "pulse-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContent_TrimsWhitespace(t *testing.T) {
	c, err := NewContent("  hello world  ", 100)
	require.NoError(t, err)
	assert.Equal(t, "hello world", c.String())
}

func TestNewContent_RejectsEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := NewContent(raw, 100)
		assert.True(t, pkgerrors.IsValidation(err))
	}
}

func TestNewContent_BoundsInRunes(t *testing.T) {
	// 10 multibyte runes fit a limit of 10 even though they are 30 bytes
	c, err := NewContent(strings.Repeat("世", 10), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, len([]rune(c.String())))

	_, err = NewContent(strings.Repeat("世", 11), 10)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewContent_ZeroLimitMeansUnbounded(t *testing.T) {
	_, err := NewContent(strings.Repeat("a", 10000), 0)
	assert.NoError(t, err)
}

func TestNewMediaRef_Validation(t *testing.T) {
	ref, err := NewMediaRef(" https://example.com/a.png ", MediaImage)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", ref.URL)

	_, err = NewMediaRef("", MediaImage)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewMediaRef("https://example.com/a.gif", MediaKind("gif"))
	assert.True(t, pkgerrors.IsValidation(err))
}
