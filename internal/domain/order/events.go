package order

import (
	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderDelivered     = "OrderDelivered"
	EventTypeAllocationsSaved   = "AllocationsSaved"
)

// OrderCreatedEvent is raised when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}

// OrderStatusChangedEvent is raised on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	ChangedBy   string    `json:"changed_by"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to Status, changedBy string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              to,
		ChangedBy:       changedBy,
	}
}

// OrderDeliveredEvent triggers inventory deduction for the order's allocations
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderDeliveredEvent creates an OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}

// AllocationsSavedEvent is raised after an order's allocation set is replaced
type AllocationsSavedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	RecordCount   int             `json:"record_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewAllocationsSavedEvent creates an AllocationsSavedEvent
func NewAllocationsSavedEvent(orderID uuid.UUID, allocations []Allocation) *AllocationsSavedEvent {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Quantity)
	}
	return &AllocationsSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationsSaved, AggregateTypeOrder, orderID),
		OrderID:         orderID,
		RecordCount:     len(allocations),
		TotalQuantity:   total,
	}
}
