package inventory

import (
	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	// AggregateTypeStockBatch is the aggregate type name for stock batches
	AggregateTypeStockBatch = "StockBatch"

	EventTypeStockBatchReceived = "StockBatchReceived"
	EventTypeStockDeducted      = "StockDeducted"
)

// StockBatchReceivedEvent is raised when a batch is booked in
type StockBatchReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Batch     string          `json:"batch"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
}

// NewStockBatchReceivedEvent creates a StockBatchReceivedEvent
func NewStockBatchReceivedEvent(b *StockBatch) *StockBatchReceivedEvent {
	return &StockBatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBatchReceived, AggregateTypeStockBatch, b.ID),
		ProductID:       b.ProductID,
		Batch:           b.Batch,
		Quantity:        b.Quantity,
		Unit:            b.Unit,
	}
}

// StockDeductedEvent is raised once per order after delivery deductions
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Lines   int             `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

// NewStockDeductedEvent creates a StockDeductedEvent
func NewStockDeductedEvent(orderID uuid.UUID, lines int, total decimal.Decimal) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypeStockBatch, orderID),
		OrderID:         orderID,
		Lines:           lines,
		Total:           total,
	}
}
