package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/masala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches domain events synchronously to subscribed
// handlers in the publishing goroutine. A failing or panicking handler is
// logged and does not stop delivery to the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	logger   *zap.Logger
	running  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		byType: make(map[string][]shared.EventHandler),
		logger: logger,
	}
}

// Publish delivers events in order. Events published while the bus is
// stopped are dropped with a warning.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		for _, e := range events {
			b.logger.Warn("event bus stopped, dropping event", zap.String("event_type", e.EventType()))
		}
		return nil
	}
	for _, e := range events {
		for _, h := range b.handlersFor(e.EventType()) {
			if err := b.dispatch(ctx, h, e); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes()
// when none are given. A handler with no types receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		b.byType[t] = append(b.byType[t], handler)
	}
}

// Unsubscribe removes handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = without(b.wildcard, handler)
	for t, hs := range b.byType {
		if hs = without(hs, handler); len(hs) == 0 {
			delete(b.byType, t)
		} else {
			b.byType[t] = hs
		}
	}
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop stops the event bus
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

// HandlerCount returns the number of handlers that would receive eventType
func (b *InMemoryEventBus) HandlerCount(eventType string) int {
	return len(b.handlersFor(eventType))
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]shared.EventHandler, 0, len(b.byType[eventType])+len(b.wildcard))
	out = append(out, b.byType[eventType]...)
	return append(out, b.wildcard...)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}

func without(hs []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := hs[:0]
	for _, h := range hs {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
