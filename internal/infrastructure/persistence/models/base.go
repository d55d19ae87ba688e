package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
)

// AggregateModel holds the columns shared by the orders and stock_batches
// tables. Version backs optimistic locking in the repositories.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot copies identity, timestamps and version from a
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the aggregate header; no events are queued
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Version:    m.Version,
	}
}
