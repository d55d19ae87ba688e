package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis-backed store when Redis is configured
// and reachable. Without a Redis host it returns an in-memory store. When
// Redis is configured but unreachable, fallback decides between the
// in-memory store and an error.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, fallback bool, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if cfg.Host == "" {
		logger.Info("redis not configured, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(5 * time.Minute), nil
	}

	client, err := DialRedis(ctx, cfg.Addr(), cfg.Password, cfg.DB)
	if err == nil {
		logger.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
		return NewRedisIdempotencyStore(client, DefaultKeyPrefix), nil
	}
	if !fallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}
	logger.Warn("redis unavailable, falling back to in-memory idempotency store; "+
		"repeated Idempotency-Key values are only detected per instance",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(5 * time.Minute), nil
}
