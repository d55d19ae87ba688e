// Package inventory serves stock batch availability and keeps stock in
// step with delivered orders.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles stock batch operations
type InventoryService struct {
	batches        inventory.StockBatchRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(batches inventory.StockBatchRepository, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{batches: batches, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListBatchesForProduct returns availability per batch label, earliest
// expiry first. Labels with nothing left are omitted.
func (s *InventoryService) ListBatchesForProduct(ctx context.Context, productID uuid.UUID) ([]inventory.BatchAvailability, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	records, err := s.batches.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return inventory.Summarize(records), nil
}

// ReceiveBatch records a purchase receipt as a new stock batch
func (s *InventoryService) ReceiveBatch(ctx context.Context, req ReceiveBatchRequest) (*StockBatchResponse, error) {
	b, err := inventory.NewStockBatch(req.ProductID, req.ProductName, req.Batch, req.Unit, req.Quantity, req.UnitCost, req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if err := s.batches.Save(ctx, b); err != nil {
		return nil, err
	}

	if events := b.PullDomainEvents(); s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish stock batch events", zap.Error(err))
		}
	}

	s.logger.Info("stock batch received",
		zap.String("product_id", b.ProductID.String()),
		zap.String("batch", b.Batch),
		zap.String("quantity", b.Quantity.String()),
		zap.String("unit", b.Unit),
	)
	response := ToStockBatchResponse(b)
	return &response, nil
}
