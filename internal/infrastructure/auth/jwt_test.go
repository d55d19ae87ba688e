package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		Issuer:          "masala-test",
		TokenExpiration: time.Hour,
	})
}

func TestNewJWTService_DefaultExpiration(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s"})
	assert.Equal(t, 12*time.Hour, svc.Expiration())
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateToken(" priya ", "packer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "priya", claims.Operator)
	assert.Equal(t, "priya", claims.Subject)
	assert.True(t, claims.HasRole("packer"))
	assert.False(t, claims.HasRole("admin"))
	assert.Equal(t, expiresAt.Unix(), claims.GetExpiresAtTime().Unix())
}

func TestJWTService_GenerateToken_Errors(t *testing.T) {
	_, _, err := newTestJWTService().GenerateToken("  ")
	assert.ErrorIs(t, err, ErrMissingOperator)

	_, _, err = NewJWTService(config.JWTConfig{}).GenerateToken("priya")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := newTestJWTService()
	valid, _, err := svc.GenerateToken("priya")
	require.NoError(t, err)

	expired := newTestJWTService()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.GenerateToken("priya")
	require.NoError(t, err)

	future := newTestJWTService()
	future.now = func() time.Time { return time.Now().Add(time.Hour) }
	futureToken, _, err := future.GenerateToken("priya")
	require.NoError(t, err)

	otherIssuer := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "someone-else"})
	otherIssuerToken, _, err := otherIssuer.GenerateToken("priya")
	require.NoError(t, err)

	noOperator, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "masala-test", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret-key-at-least-32-chars"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Operator: "priya"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"tampered", valid + "x", ErrInvalidToken},
		{"expired", expiredToken, ErrExpiredToken},
		{"not yet valid", futureToken, ErrTokenNotYetValid},
		{"wrong issuer", otherIssuerToken, ErrInvalidToken},
		{"missing operator", noOperator, ErrMissingOperator},
		{"none algorithm", noneAlg, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
