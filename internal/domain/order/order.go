package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name for orders
const AggregateTypeOrder = "Order"

// Order is the aggregate root for a customer order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	Status        Status
	Items         []Item
	TotalAmount   decimal.Decimal
	Notes         string
}

// Reference returns an order that carries only its ID
func Reference(id uuid.UUID) *Order {
	return &Order{BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: id}}}
}

// NewOrder creates a pending order
func NewOrder(orderNumber, customerName, customerPhone string) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       strings.TrimSpace(orderNumber),
		CustomerName:      strings.TrimSpace(customerName),
		CustomerPhone:     strings.TrimSpace(customerPhone),
		Status:            StatusPending,
		Items:             make([]Item, 0),
		TotalAmount:       decimal.Zero,
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// AddItem appends a line created with NewRegularItem or NewMixItem
func (o *Order) AddItem(item *Item) error {
	if item == nil {
		return shared.NewDomainError("INVALID_ITEM", "Item cannot be nil")
	}
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to pending orders")
	}
	item.OrderID = o.ID
	item.LineNo = len(o.Items) + 1
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.Touch()
	return nil
}

// Item returns the line with the given ID or nil
func (o *Order) Item(itemID uuid.UUID) *Item {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TransitionTo moves the order to target and returns the history entry.
// Moving to the current status is a no-op and returns nil, nil.
func (o *Order) TransitionTo(target Status, changedBy, notes string) (*StatusChange, error) {
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("unknown order status %q", target))
	}
	if o.Status == target {
		return nil, nil
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.Touch()
	o.IncrementVersion()

	change := NewStatusChange(o.ID, from, target, changedBy, notes)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target, change.ChangedBy))
	if target == StatusDelivered {
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	}
	return change, nil
}

// CanEditAllocations reports whether allocations may still be replaced
func (o *Order) CanEditAllocations() bool {
	return o.Status.AllowsAllocationChanges()
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount())
	}
	o.TotalAmount = total.Round(2)
}

// StatusChange is one row of an order's status history
type StatusChange struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	From      Status
	To        Status
	ChangedBy string
	Notes     string
	ChangedAt time.Time
}

// NewStatusChange creates a history entry; an empty changedBy is recorded as "system"
func NewStatusChange(orderID uuid.UUID, from, to Status, changedBy, notes string) *StatusChange {
	changedBy = strings.TrimSpace(changedBy)
	if changedBy == "" {
		changedBy = "system"
	}
	return &StatusChange{
		ID:        uuid.New(),
		OrderID:   orderID,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
		Notes:     strings.TrimSpace(notes),
		ChangedAt: time.Now(),
	}
}
