package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ReceiveBatchRequest books a purchased lot into stock
type ReceiveBatchRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"omitempty,max=200"`
	Batch       string          `json:"batch" binding:"required,max=50"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" binding:"required,max=20"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// StockBatchResponse is a stock batch record
type StockBatchResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Batch       string          `json:"batch"`
	Quantity    decimal.Decimal `json:"quantity"`
	Consumed    decimal.Decimal `json:"consumed"`
	Available   decimal.Decimal `json:"available"`
	Unit        string          `json:"unit"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ReceivedAt  time.Time       `json:"received_at"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// ToStockBatchResponse converts a stock batch to its API form
func ToStockBatchResponse(b *inventory.StockBatch) StockBatchResponse {
	return StockBatchResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		ProductName: b.ProductName,
		Batch:       b.Batch,
		Quantity:    b.Quantity,
		Consumed:    b.Consumed,
		Available:   b.Available(),
		Unit:        b.Unit,
		UnitCost:    b.UnitCost,
		ReceivedAt:  b.ReceivedAt,
		ExpiryDate:  b.ExpiryDate,
	}
}
