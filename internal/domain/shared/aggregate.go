package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps. Timestamps are kept in UTC.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates an entity with a fresh ID
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch refreshes UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// BaseAggregateRoot adds optimistic locking and a queue of events raised
// since the aggregate was loaded. Repositories compare Version on update.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// IncrementVersion bumps the version after a state change
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent queues e for publishing after the aggregate is saved
func (a *BaseAggregateRoot) AddDomainEvent(e DomainEvent) {
	a.domainEvents = append(a.domainEvents, e)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents empties the queue
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// PullDomainEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}
