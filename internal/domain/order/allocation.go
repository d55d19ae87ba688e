package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Allocation is a persisted assignment of quantity from one batch to one
// allocation unit of an order. OrderItemKey is opaque: it is an item ID for
// regular lines and "<itemID>::<componentIndex>" for mix components.
type Allocation struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	OrderItemKey string
	ProductID    uuid.UUID
	Batch        string
	Quantity     decimal.Decimal
	Unit         string
	CreatedAt    time.Time
}

// NewAllocation validates and creates an allocation record
func NewAllocation(orderID uuid.UUID, itemKey string, productID uuid.UUID, batch string, quantity decimal.Decimal, unit string) (*Allocation, error) {
	itemKey = strings.TrimSpace(itemKey)
	batch = strings.TrimSpace(batch)
	if itemKey == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_KEY", "order_item_id cannot be empty")
	}
	if len(itemKey) > 100 {
		return nil, shared.NewDomainError("INVALID_ITEM_KEY", "order_item_id cannot exceed 100 characters")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batch == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch cannot be empty")
	}
	if len(batch) > 50 {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch cannot exceed 50 characters")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Allocated quantity must be positive")
	}
	return &Allocation{
		ID:           uuid.New(),
		OrderID:      orderID,
		OrderItemKey: itemKey,
		ProductID:    productID,
		Batch:        batch,
		Quantity:     quantity,
		Unit:         strings.TrimSpace(unit),
		CreatedAt:    time.Now(),
	}, nil
}
