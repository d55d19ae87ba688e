package orderclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	apporder "github.com/masala/backend/internal/application/order"
	"github.com/masala/backend/internal/application/planner"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/domain/shared"
)

var (
	_ planner.OrderGateway     = (*Client)(nil)
	_ planner.InventoryGateway = (*Client)(nil)
)

func orderPath(orderID uuid.UUID, suffix string) string {
	return "/api/orders/" + url.PathEscape(orderID.String()) + suffix
}

// GetOrder fetches an order with its lines
func (c *Client) GetOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	var resp apporder.OrderResponse
	if err := c.get(ctx, orderPath(orderID, ""), &resp); err != nil {
		return nil, err
	}
	return toDomainOrder(&resp), nil
}

// ListAllocations fetches the order's saved allocations
func (c *Client) ListAllocations(ctx context.Context, orderID uuid.UUID) ([]order.Allocation, error) {
	var records []apporder.AllocationRecord
	if err := c.get(ctx, orderPath(orderID, "/allocations"), &records); err != nil {
		return nil, err
	}
	out := make([]order.Allocation, len(records))
	for i, r := range records {
		out[i] = order.Allocation{
			OrderID:      orderID,
			OrderItemKey: r.OrderItemID,
			ProductID:    r.ProductID,
			Batch:        r.Batch,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
		}
	}
	return out, nil
}

// SaveAllocations replaces the order's allocations in a single request
func (c *Client) SaveAllocations(ctx context.Context, orderID uuid.UUID, allocations []order.Allocation) error {
	_, err := c.SaveAllocationsWithKey(ctx, orderID, allocations, "")
	return err
}

// SaveAllocationsWithKey is SaveAllocations with an Idempotency-Key header.
// A repeated key is acknowledged by the server without writing.
func (c *Client) SaveAllocationsWithKey(ctx context.Context, orderID uuid.UUID, allocations []order.Allocation, key string) (*apporder.SaveAllocationsResult, error) {
	req := apporder.SaveAllocationsRequest{Allocations: apporder.ToAllocationRecords(allocations)}
	var headers map[string]string
	if key != "" {
		headers = map[string]string{"Idempotency-Key": key}
	}
	var result apporder.SaveAllocationsResult
	if err := c.do(ctx, http.MethodPost, orderPath(orderID, "/allocations"), req, headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TransitionStatus requests an order status change
func (c *Client) TransitionStatus(ctx context.Context, orderID uuid.UUID, update planner.StatusUpdate) error {
	req := apporder.TransitionStatusRequest{
		Status:    string(update.Status),
		ChangedBy: update.ChangedBy,
		Notes:     update.Notes,
	}
	return c.do(ctx, http.MethodPut, orderPath(orderID, "/status"), req, nil, nil)
}

// ListBatches fetches batch availability of a product
func (c *Client) ListBatches(ctx context.Context, productID uuid.UUID) ([]inventory.BatchAvailability, error) {
	var batches []inventory.BatchAvailability
	path := "/api/inventory/product/" + url.PathEscape(productID.String()) + "/batches"
	if err := c.get(ctx, path, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// StatusHistory fetches the order's status changes
func (c *Client) StatusHistory(ctx context.Context, orderID uuid.UUID) ([]apporder.StatusHistoryResponse, error) {
	var history []apporder.StatusHistoryResponse
	if err := c.get(ctx, orderPath(orderID, "/status-history"), &history); err != nil {
		return nil, err
	}
	return history, nil
}

func toDomainOrder(r *apporder.OrderResponse) *order.Order {
	items := make([]order.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = order.Item{
			ID:          it.ID,
			OrderID:     r.ID,
			LineNo:      it.LineNo,
			Type:        order.ItemType(it.Type),
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			MixPayload:  it.MixPayload,
		}
	}
	return &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
			Version:    r.Version,
		},
		OrderNumber:   r.OrderNumber,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Status:        order.Status(r.Status),
		Items:         items,
		TotalAmount:   r.TotalAmount,
		Notes:         r.Notes,
	}
}
