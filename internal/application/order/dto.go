package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the input for creating an order
type CreateOrderRequest struct {
	OrderNumber   string                   `json:"order_number" binding:"omitempty,max=50"`
	CustomerName  string                   `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerPhone string                   `json:"customer_phone" binding:"omitempty,max=50"`
	Notes         string                   `json:"notes" binding:"omitempty,max=2000"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one line of a new order.
// Mix lines carry their components in MixPayload using either the
// {"components": [...]} or the bare array form.
type CreateOrderItemRequest struct {
	Type        string          `json:"type" binding:"omitempty,oneof=regular mix"`
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MixPayload  json.RawMessage `json:"mix_payload,omitempty" swaggertype:"object"`
}

// OrderResponse is an order with its lines
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Notes         string              `json:"notes,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// OrderItemResponse is one order line. MixPayload is returned exactly as stored.
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	LineNo      int             `json:"line_no"`
	Type        string          `json:"type"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	MixPayload  json.RawMessage `json:"mix_payload,omitempty" swaggertype:"object"`
}

// OrderListItemResponse is an order row in list results
type OrderListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderListFilter holds list query parameters
type OrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed processing ready delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AllocationRecord is one (unit, batch, quantity) entry as exchanged over
// the API. OrderItemID is an opaque unit key.
type AllocationRecord struct {
	OrderItemID string          `json:"order_item_id" binding:"required,max=100"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Batch       string          `json:"batch" binding:"required,max=50"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" binding:"omitempty,max=20"`
}

// SaveAllocationsRequest replaces every allocation of an order
type SaveAllocationsRequest struct {
	Allocations []AllocationRecord `json:"allocations" binding:"dive"`
}

// SaveAllocationsResult reports what a save did
type SaveAllocationsResult struct {
	OrderID     uuid.UUID `json:"order_id"`
	RecordCount int       `json:"record_count"`
	// Duplicate is true when the idempotency key had already been used and nothing was written
	Duplicate bool `json:"duplicate"`
}

// TransitionStatusRequest asks for an order status change
type TransitionStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	ChangedBy string `json:"changed_by" binding:"omitempty,max=100"`
	Notes     string `json:"notes" binding:"omitempty,max=1000"`
}

// StatusHistoryResponse is one recorded status change
type StatusHistoryResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	Notes      string    `json:"notes,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

// ToOrderResponse converts an order to its API form
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ToOrderItemResponse(&o.Items[i])
	}
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		Items:         items,
		ItemCount:     o.ItemCount(),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Version:       o.Version,
	}
}

// ToOrderItemResponse converts an order line to its API form
func ToOrderItemResponse(item *order.Item) OrderItemResponse {
	return OrderItemResponse{
		ID:          item.ID,
		LineNo:      item.LineNo,
		Type:        string(item.Type),
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount(),
		MixPayload:  item.MixPayload,
	}
}

// ToOrderListItemResponse converts an order to its list row
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToAllocationRecords converts persisted allocations to API records
func ToAllocationRecords(allocations []order.Allocation) []AllocationRecord {
	out := make([]AllocationRecord, len(allocations))
	for i, a := range allocations {
		out[i] = AllocationRecord{
			OrderItemID: a.OrderItemKey,
			ProductID:   a.ProductID,
			Batch:       a.Batch,
			Quantity:    a.Quantity,
			Unit:        a.Unit,
		}
	}
	return out
}

// ToStatusHistoryResponse converts a status change to its API form
func ToStatusHistoryResponse(c *order.StatusChange) StatusHistoryResponse {
	return StatusHistoryResponse{
		ID:         c.ID,
		FromStatus: string(c.From),
		ToStatus:   string(c.To),
		ChangedBy:  c.ChangedBy,
		Notes:      c.Notes,
		ChangedAt:  c.ChangedAt,
	}
}
