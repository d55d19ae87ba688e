package cache

import (
	"context"
	"testing"
	"time"

	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newStoreWithClock(t *testing.T) (*InMemoryIdempotencyStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore(0)
	store.now = clock.now
	t.Cleanup(func() { _ = store.Close() })
	return store, clock
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store, clock := newStoreWithClock(t)
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "save-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "save-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew, "second mark within ttl is a duplicate")

	clock.t = clock.t.Add(2 * time.Hour)
	isNew, err = store.MarkProcessed(ctx, "save-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "expired key can be marked again")
}

func TestInMemoryIdempotencyStore_IsProcessedAndRelease(t *testing.T) {
	store, clock := newStoreWithClock(t)
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	processed, _ = store.IsProcessed(ctx, "evt-1")
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, "evt-1"))
	processed, _ = store.IsProcessed(ctx, "evt-1")
	assert.False(t, processed)

	_, _ = store.MarkProcessed(ctx, "evt-2", time.Minute)
	clock.t = clock.t.Add(time.Hour)
	processed, _ = store.IsProcessed(ctx, "evt-2")
	assert.False(t, processed, "expired keys read as unprocessed")
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store, clock := newStoreWithClock(t)
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short", time.Minute)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	clock.t = clock.t.Add(10 * time.Minute)

	store.sweep()
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("no redis host uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStore(ctx, config.RedisConfig{}, false, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		_, err := NewIdempotencyStore(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1}, false, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("unreachable redis with fallback uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStore(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1}, true, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})
}
