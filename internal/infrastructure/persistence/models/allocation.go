package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// AllocationModel is the persistence model for a batch allocation record
type AllocationModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemKey string          `gorm:"type:varchar(100);not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Batch        string          `gorm:"type:varchar(50);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "order_allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *AllocationModel) ToDomain() *order.Allocation {
	return &order.Allocation{
		ID:           m.ID,
		OrderID:      m.OrderID,
		OrderItemKey: m.OrderItemKey,
		ProductID:    m.ProductID,
		Batch:        m.Batch,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		CreatedAt:    m.CreatedAt,
	}
}

// AllocationModelFromDomain creates a new persistence model from a domain Allocation
func AllocationModelFromDomain(a *order.Allocation) *AllocationModel {
	return &AllocationModel{
		ID:           a.ID,
		OrderID:      a.OrderID,
		OrderItemKey: a.OrderItemKey,
		ProductID:    a.ProductID,
		Batch:        a.Batch,
		Quantity:     a.Quantity,
		Unit:         a.Unit,
		CreatedAt:    a.CreatedAt,
	}
}
