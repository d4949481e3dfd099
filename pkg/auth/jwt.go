package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpiredToken indicates the token's expiry has passed
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidSignature indicates the token was not signed with our key
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrInvalidToken covers every other validation failure
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by a session token
type Claims struct {
	UserID string `json:"uid"`
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// TokenManagerConfig configures token issuing and validation
type TokenManagerConfig struct {
	SecretKey string
	Issuer    string
	Audience  []string
	Expiry    time.Duration
}

// TokenManager issues and validates HS256 session tokens
type TokenManager struct {
	secret   []byte
	issuer   string
	audience []string
	expiry   time.Duration
}

// NewTokenManager creates a token manager
func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token secret key is required")
	}

	expiry := cfg.Expiry
	if expiry == 0 {
		expiry = 24 * time.Hour
	}

	return &TokenManager{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		expiry:   expiry,
	}, nil
}

// Generate issues a signed session token for a user
func (m *TokenManager) Generate(userID, handle string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.issuer,
			Audience:  m.audience,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a session token
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
