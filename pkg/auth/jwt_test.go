package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, cfg TokenManagerConfig) *TokenManager {
	t.Helper()
	if cfg.SecretKey == "" {
		cfg.SecretKey = "test-secret"
	}
	m, err := NewTokenManager(cfg)
	require.NoError(t, err)
	return m
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestManager(t, TokenManagerConfig{Issuer: "pulse-test"})

	token, err := m.Generate("u1", "alice")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Handle)
	assert.Equal(t, "pulse-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager(TokenManagerConfig{})
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := newTestManager(t, TokenManagerConfig{Expiry: -time.Minute})

	token, err := m.Generate("u1", "alice")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_RejectsWrongKey(t *testing.T) {
	issuer := newTestManager(t, TokenManagerConfig{SecretKey: "key-one"})
	verifier := newTestManager(t, TokenManagerConfig{SecretKey: "key-two"})

	token, err := issuer.Generate("u1", "alice")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	issuer := newTestManager(t, TokenManagerConfig{Issuer: "someone-else"})
	verifier := newTestManager(t, TokenManagerConfig{Issuer: "pulse-test"})

	token, err := issuer.Generate("u1", "alice")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := newTestManager(t, TokenManagerConfig{})

	_, err := m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, CheckPassword(hash, "correct-horse"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
