package planner

import (
	"context"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/order"
)

// StatusUpdate is the body of a status transition request
type StatusUpdate struct {
	Status    order.Status
	ChangedBy string
	Notes     string
}

// OrderGateway is the order service as seen by an allocation session
type OrderGateway interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
	ListAllocations(ctx context.Context, orderID uuid.UUID) ([]order.Allocation, error)
	// SaveAllocations replaces the order's allocations with the given set
	SaveAllocations(ctx context.Context, orderID uuid.UUID, allocations []order.Allocation) error
	TransitionStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate) error
}

// InventoryGateway looks up batch availability
type InventoryGateway interface {
	ListBatches(ctx context.Context, productID uuid.UUID) ([]inventory.BatchAvailability, error)
}
