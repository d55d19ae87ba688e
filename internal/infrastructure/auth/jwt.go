// Package auth issues and validates operator tokens. Tokens only carry
// the operator's identity, which is recorded as changed_by on status
// changes; there is no user store.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/masala/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingOperator  = errors.New("missing operator in claims")
	ErrMissingSecret    = errors.New("jwt secret is not configured")
)

// Claims represents operator token claims
type Claims struct {
	jwt.RegisteredClaims
	Operator string   `json:"operator"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole checks if the claims contain role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *Claims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// JWTService handles operator token operations
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	expiration := cfg.TokenExpiration
	if expiration <= 0 {
		expiration = 12 * time.Hour
	}
	return &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken signs a token for operator
func (s *JWTService) GenerateToken(operator string, roles ...string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", time.Time{}, ErrMissingOperator
	}

	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Operator: operator,
		Roles:    roles,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateToken validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if strings.TrimSpace(claims.Operator) == "" {
		return nil, ErrMissingOperator
	}
	return claims, nil
}

// Expiration returns the lifetime of issued tokens
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}
