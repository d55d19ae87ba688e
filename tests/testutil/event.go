package testutil

import (
	"context"
	"sync"

	"github.com/masala/backend/internal/domain/shared"
)

// RecordingEventHandler records every event it receives
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingEventHandler creates a handler subscribed to eventTypes
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event and returns the configured error
func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Types returns the types of handled events in order
func (h *RecordingEventHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.handled))
	for i, e := range h.handled {
		out[i] = e.EventType()
	}
	return out
}

// Handled returns a copy of all handled events
func (h *RecordingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// SetError sets the error returned from Handle
func (h *RecordingEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}
