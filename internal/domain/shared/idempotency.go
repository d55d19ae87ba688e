package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been acted upon.
// Keys are event IDs for event handlers and client-supplied
// Idempotency-Key header values for allocation saves.
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so that a failed operation can be retried
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed key is remembered. Default: 24 hours
	TTL time.Duration
	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
