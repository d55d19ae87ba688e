package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masala/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-client rate limit configuration
type RateLimitConfig struct {
	// Requests allowed per Window for one client IP
	Requests int
	Window   time.Duration
	// IdleTTL evicts limiters of clients not seen for this long
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewIPRateLimiter creates a limiter allowing cfg.Requests per cfg.Window,
// bursting up to cfg.Requests.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &IPRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Requests)),
		burst:   cfg.Requests,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now
func (l *IPRateLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

func (l *IPRateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Cleanup drops limiters idle for longer than the configured TTL
func (l *IPRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idleTTL)
	removed := 0
	for key, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done
func (l *IPRateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// Len returns the number of tracked clients
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit returns middleware answering 429 once a client IP exceeds its budget
func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, "Too many requests", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
