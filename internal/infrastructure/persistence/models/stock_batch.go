package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockBatchModel is the persistence model for the StockBatch aggregate.
type StockBatchModel struct {
	AggregateModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_batches_product_batch,priority:1"`
	ProductName string          `gorm:"type:varchar(200)"`
	Batch       string          `gorm:"type:varchar(50);not null;index:idx_stock_batches_product_batch,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Consumed    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedAt  time.Time       `gorm:"not null"`
	ExpiryDate  *time.Time      `gorm:"type:date;index"`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// ToDomain converts the persistence model to a domain StockBatch
func (m *StockBatchModel) ToDomain() *inventory.StockBatch {
	return &inventory.StockBatch{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		Batch:             m.Batch,
		Quantity:          m.Quantity,
		Consumed:          m.Consumed,
		Unit:              m.Unit,
		UnitCost:          m.UnitCost,
		ReceivedAt:        m.ReceivedAt,
		ExpiryDate:        m.ExpiryDate,
	}
}

// FromDomain populates the persistence model from a domain StockBatch
func (m *StockBatchModel) FromDomain(b *inventory.StockBatch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ProductID = b.ProductID
	m.ProductName = b.ProductName
	m.Batch = b.Batch
	m.Quantity = b.Quantity
	m.Consumed = b.Consumed
	m.Unit = b.Unit
	m.UnitCost = b.UnitCost
	m.ReceivedAt = b.ReceivedAt
	m.ExpiryDate = b.ExpiryDate
}

// StockBatchModelFromDomain creates a new persistence model from a domain StockBatch
func StockBatchModelFromDomain(b *inventory.StockBatch) *StockBatchModel {
	m := &StockBatchModel{}
	m.FromDomain(b)
	return m
}
