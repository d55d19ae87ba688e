package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderDeliveredHandler deducts an order's allocated quantities from the
// allocated batches once the order is delivered. All deductions of one
// order happen in one transaction: if any batch is short, nothing is
// deducted. Wrap it in an idempotent handler so redelivered events do not
// deduct twice.
type OrderDeliveredHandler struct {
	allocations    order.AllocationRepository
	batches        inventory.StockBatchRepository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.AllocationMetrics
	logger         *zap.Logger
}

// NewOrderDeliveredHandler creates a new OrderDeliveredHandler
func NewOrderDeliveredHandler(allocations order.AllocationRepository, batches inventory.StockBatchRepository, logger *zap.Logger) *OrderDeliveredHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderDeliveredHandler{allocations: allocations, batches: batches, logger: logger}
}

// WithEventPublisher sets the publisher for StockDeducted events
func (h *OrderDeliveredHandler) WithEventPublisher(publisher shared.EventPublisher) *OrderDeliveredHandler {
	h.eventPublisher = publisher
	return h
}

// WithMetrics sets the metrics recorder
func (h *OrderDeliveredHandler) WithMetrics(m *telemetry.AllocationMetrics) *OrderDeliveredHandler {
	h.metrics = m
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *OrderDeliveredHandler) EventTypes() []string {
	return []string{order.EventTypeOrderDelivered}
}

type batchKey struct {
	productID uuid.UUID
	batch     string
}

type deduction struct {
	key      batchKey
	quantity decimal.Decimal
	unit     string
}

// Handle processes an OrderDeliveredEvent
func (h *OrderDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) (err error) {
	delivered, ok := event.(*order.OrderDeliveredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s", order.EventTypeOrderDelivered, event.EventType())
	}

	ctx, span := telemetry.StartSpan(ctx, "OrderDeliveredHandler", "Handle",
		telemetry.AttrOrderID.String(delivered.OrderID.String()))
	defer func() { telemetry.End(span, err) }()

	allocations, err := h.allocations.FindByOrder(ctx, delivered.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load allocations: %w", err)
	}
	if len(allocations) == 0 {
		h.logger.Warn("delivered order has no allocations, nothing deducted",
			zap.String("order_id", delivered.OrderID.String()),
			zap.String("order_number", delivered.OrderNumber))
		return nil
	}

	deductions := mergeDeductions(allocations)
	err = h.batches.WithTx(ctx, func(repo inventory.StockBatchRepository) error {
		changed := make([]*inventory.StockBatch, 0)
		for _, d := range deductions {
			records, err := repo.FindAvailable(ctx, d.key.productID, d.key.batch)
			if err != nil {
				return err
			}
			remaining := d.quantity
			for i := range records {
				if !remaining.IsPositive() {
					break
				}
				remaining = remaining.Sub(records[i].Deduct(remaining))
				changed = append(changed, &records[i])
			}
			if remaining.IsPositive() {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("batch %s of product %s is short by %s %s", d.key.batch, d.key.productID, remaining, d.unit))
			}
		}
		return repo.SaveAll(ctx, changed)
	})
	if err != nil {
		h.logger.Error("stock deduction failed, no stock was changed",
			zap.String("order_id", delivered.OrderID.String()),
			zap.String("order_number", delivered.OrderNumber),
			zap.Error(err))
		return err
	}

	total := decimal.Zero
	for _, d := range deductions {
		total = total.Add(d.quantity)
		h.metrics.RecordDeduction(ctx, d.unit, d.quantity)
	}
	if h.eventPublisher != nil {
		if err := h.eventPublisher.Publish(ctx, inventory.NewStockDeductedEvent(delivered.OrderID, len(deductions), total)); err != nil {
			h.logger.Warn("failed to publish stock deducted event", zap.Error(err))
		}
	}
	h.logger.Info("stock deducted for delivered order",
		zap.String("order_id", delivered.OrderID.String()),
		zap.Int("batches", len(deductions)),
		zap.String("total", total.String()))
	return nil
}

// mergeDeductions sums allocations sharing a product and batch label, in
// first-seen order
func mergeDeductions(allocations []order.Allocation) []deduction {
	index := make(map[batchKey]int, len(allocations))
	out := make([]deduction, 0, len(allocations))
	for _, a := range allocations {
		k := batchKey{productID: a.ProductID, batch: a.Batch}
		if i, ok := index[k]; ok {
			out[i].quantity = out[i].quantity.Add(a.Quantity)
			continue
		}
		index[k] = len(out)
		out = append(out, deduction{key: k, quantity: a.Quantity, unit: a.Unit})
	}
	return out
}
