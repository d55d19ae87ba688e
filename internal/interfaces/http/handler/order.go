package handler

import (
	"github.com/gin-gonic/gin"
	apporder "github.com/masala/backend/internal/application/order"
	"github.com/masala/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets clients retry an allocation save safely
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler serves orders, their allocations and status transitions
type OrderHandler struct {
	BaseHandler
	orderService *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *apporder.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Create an order
// @Description  Create an order with regular and mix lines. An empty order number is generated.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body apporder.CreateOrderRequest true "Order creation request"
// @Success      201 {object} APIResponse[apporder.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req apporder.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get order detail
// @Description  Retrieve an order with its lines. Mix payloads are returned as stored.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[apporder.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Paginated order list with optional search and status filter
// @Tags         orders
// @Produce      json
// @Param        search query string false "Order number or customer name"
// @Param        status query string false "Status filter" Enums(pending, confirmed, processing, ready, delivered, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]apporder.OrderListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter apporder.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ListAllocations godoc
// @ID           listOrderAllocations
// @Summary      Get saved allocations
// @Description  Batch allocation records saved for the order
// @Tags         allocations
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[[]apporder.AllocationRecord]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id}/allocations [get]
func (h *OrderHandler) ListAllocations(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	records, err := h.orderService.ListAllocations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// SaveAllocations godoc
// @ID           saveOrderAllocations
// @Summary      Save allocations
// @Description  Replace every allocation record of the order. Does not change the order status.
// @Description  A repeated Idempotency-Key for the same order is acknowledged without writing.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        Idempotency-Key header string false "Client generated key making retries safe"
// @Param        request body apporder.SaveAllocationsRequest true "Allocation records"
// @Success      200 {object} APIResponse[apporder.SaveAllocationsResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/allocations [post]
func (h *OrderHandler) SaveAllocations(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req apporder.SaveAllocationsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.orderService.SaveAllocations(c.Request.Context(), id, req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	message := "Allocations saved"
	if result.Duplicate {
		message = "Allocations already saved"
	}
	h.SuccessWithMessage(c, result, message)
}

// TransitionStatus godoc
// @ID           transitionOrderStatus
// @Summary      Change order status
// @Description  Move the order to a new status. Entering processing requires every unit to be fully allocated.
// @Description  For authenticated requests the token's operator is recorded as changed_by.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body apporder.TransitionStatusRequest true "Target status"
// @Success      200 {object} APIResponse[apporder.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) TransitionStatus(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req apporder.TransitionStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if operator := middleware.GetOperator(c); operator != "" {
		req.ChangedBy = operator
	}

	order, err := h.orderService.TransitionStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, order, "Order status updated to "+order.Status)
}

// StatusHistory godoc
// @ID           getOrderStatusHistory
// @Summary      Get status history
// @Description  Status changes of the order, oldest first
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[[]apporder.StatusHistoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id}/status-history [get]
func (h *OrderHandler) StatusHistory(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.orderService.StatusHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
