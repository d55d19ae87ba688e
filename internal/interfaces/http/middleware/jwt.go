package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/masala/backend/internal/infrastructure/auth"
	"github.com/masala/backend/internal/infrastructure/logger"
	"github.com/masala/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTOperatorKey = "jwt_operator"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Required rejects unauthenticated writes. Reads stay open either way,
	// and a token that is present must always be valid.
	Required bool
	Logger   *zap.Logger
}

// JWTAuth validates the bearer token, if any, and records the operator
// in both the gin context and the request context.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			if cfg.Required && isWrite(c.Request.Method) {
				abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Authentication required")
				return
			}
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTOperatorKey, claims.Operator)
		c.Request = c.Request.WithContext(logger.WithOperator(c.Request.Context(), claims.Operator))

		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case reason != "Authentication required":
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetOperator returns the authenticated operator, or "" for anonymous requests
func GetOperator(c *gin.Context) string {
	return c.GetString(JWTOperatorKey)
}
