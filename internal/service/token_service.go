package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"brainvault/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any assertion that fails verification:
// bad signature, unexpected algorithm, malformed payload or expiry.
var ErrInvalidToken = errors.New("invalid token")

const (
	// TokenTTL is the validity window of an issued assertion.
	TokenTTL = 7 * 24 * time.Hour

	tokenIssuer   = "brainvault-api"
	tokenAudience = "brainvault-client"
)

// Claims is the signed payload: {id, username, exp} plus the registered claims.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session assertions.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithTTL overrides TokenTTL.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) { s.ttl = ttl }
}

// NewTokenService returns a TokenService signing with secret.
// An empty secret is refused so auth can never be silently disabled.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs an assertion for identity that expires TokenTTL from now.
func (s *TokenService) Issue(identity models.Identity) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   identity.ID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity.ID), 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm, issuer, audience and expiry of
// tokenString and returns the embedded identity.
func (s *TokenService) Verify(tokenString string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Username == "" {
		return models.Identity{}, ErrInvalidToken
	}
	if claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return models.Identity{}, ErrInvalidToken
	}
	return models.Identity{ID: claims.UserID, Username: claims.Username}, nil
}
