package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(RateLimitConfig{Requests: 2, Window: time.Hour})
	r := gin.New()
	r.Use(RequestID(), RateLimit(limiter))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/x", "", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/x", "", nil).Code)

	w := perform(r, http.MethodGet, "/x", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
}

func TestIPRateLimiter_PerClient(t *testing.T) {
	limiter := NewIPRateLimiter(RateLimitConfig{Requests: 1, Window: time.Hour})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.Len())
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(RateLimitConfig{Requests: 5, Window: time.Minute, IdleTTL: time.Minute})
	limiter.now = func() time.Time { return now }

	limiter.Allow("old")
	now = now.Add(2 * time.Minute)
	limiter.Allow("fresh")

	assert.Equal(t, 1, limiter.Cleanup())
	assert.Equal(t, 1, limiter.Len())
}
