package event

import (
	"context"
	"sync/atomic"

	"github.com/masala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats is a snapshot of an IdempotentHandler's counters
type IdempotencyStats struct {
	Processed int64 `json:"processed"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

// IdempotentHandler wraps an EventHandler so each event ID is handled at
// most once within the configured TTL. A failed event releases its key so
// a redelivery is processed again.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// NewIdempotentHandler creates a new idempotent handler wrapper
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, cfg shared.IdempotencyConfig, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{handler: handler, store: store, config: cfg, logger: logger}
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle processes the event unless its ID was already recorded
func (h *IdempotentHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, e)
	}

	key := "event:" + e.EventID().String()
	log := h.logger.With(zap.String("event_id", e.EventID().String()), zap.String("event_type", e.EventType()))

	isNew, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	switch {
	case err != nil:
		// Processing twice is recoverable; dropping a delivery is not.
		log.Warn("idempotency check failed, processing anyway", zap.Error(err))
	case !isNew:
		h.duplicate.Add(1)
		log.Debug("duplicate event skipped")
		return nil
	}

	if err := h.handler.Handle(ctx, e); err != nil {
		h.failed.Add(1)
		if relErr := h.store.Release(ctx, key); relErr != nil {
			log.Warn("failed to release idempotency key", zap.Error(relErr))
		}
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed: h.processed.Load(),
		Duplicate: h.duplicate.Load(),
		Failed:    h.failed.Load(),
	}
}

// Ensure IdempotentHandler implements EventHandler
var _ shared.EventHandler = (*IdempotentHandler)(nil)
