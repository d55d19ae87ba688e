package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
)

// Repository persists orders with their items and status history
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FindAll lists orders without items. filter.Filters["status"] narrows by status.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	// Save inserts or updates the order and its items
	Save(ctx context.Context, o *Order) error
	// SaveWithStatusChange updates the order header and appends the history
	// entry in one transaction
	SaveWithStatusChange(ctx context.Context, o *Order, change *StatusChange) error
	FindStatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusChange, error)
}

// AllocationRepository persists batch allocations
type AllocationRepository interface {
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Allocation, error)
	// ReplaceForOrder deletes every allocation of the order and inserts the
	// given set in one transaction
	ReplaceForOrder(ctx context.Context, orderID uuid.UUID, allocations []Allocation) error
}
