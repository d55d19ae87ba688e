package shared

import "context"

// EventHandler reacts to domain events. An empty EventTypes subscribes the
// handler to every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what services depend on to emit events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers. Subscribe with
// no event types falls back to the handler's own EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
