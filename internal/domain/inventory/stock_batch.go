package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockBatch is one received lot of a product. Several records may share a
// batch label (e.g. two deliveries of the same supplier lot); availability
// is reported per label.
type StockBatch struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID
	ProductName string
	Batch       string
	Quantity    decimal.Decimal // received quantity
	Consumed    decimal.Decimal // quantity already deducted by deliveries
	Unit        string
	UnitCost    decimal.Decimal
	ReceivedAt  time.Time
	ExpiryDate  *time.Time
}

// NewStockBatch creates a stock batch from a purchase receipt
func NewStockBatch(productID uuid.UUID, productName, batch, unit string, quantity, unitCost decimal.Decimal, expiry *time.Time) (*StockBatch, error) {
	batch = strings.TrimSpace(batch)
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batch == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch cannot be empty")
	}
	if len(batch) > 50 {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch cannot exceed 50 characters")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	b := &StockBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ProductName:       strings.TrimSpace(productName),
		Batch:             batch,
		Quantity:          quantity,
		Consumed:          decimal.Zero,
		Unit:              strings.TrimSpace(unit),
		UnitCost:          unitCost,
		ReceivedAt:        time.Now(),
		ExpiryDate:        expiry,
	}
	b.AddDomainEvent(NewStockBatchReceivedEvent(b))
	return b, nil
}

// Available returns the quantity not yet consumed
func (b *StockBatch) Available() decimal.Decimal {
	avail := b.Quantity.Sub(b.Consumed)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// HasStock returns true if the batch has available quantity
func (b *StockBatch) HasStock() bool {
	return b.Available().GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch has expired
func (b *StockBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// Deduct consumes quantity from the batch and returns what was actually taken,
// which is less than requested when the batch runs out.
func (b *StockBatch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	taken := decimal.Min(quantity, b.Available())
	b.Consumed = b.Consumed.Add(taken)
	b.Touch()
	b.IncrementVersion()
	return taken
}

// Restore gives back previously consumed quantity
func (b *StockBatch) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(b.Consumed) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("cannot restore %s, only %s consumed", quantity, b.Consumed))
	}
	b.Consumed = b.Consumed.Sub(quantity)
	b.Touch()
	b.IncrementVersion()
	return nil
}
