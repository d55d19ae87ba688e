package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masala/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects bodies larger than maxBytes. A non-positive limit disables the check.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}

		// Chunked bodies report no length up front
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
