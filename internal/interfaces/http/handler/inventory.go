package handler

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/masala/backend/internal/application/inventory"
	"github.com/masala/backend/internal/domain/inventory"
)

// InventoryHandler serves stock batch availability
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListProductBatches godoc
// @ID           listProductBatches
// @Summary      Get batches for product
// @Description  Available quantity per batch label, earliest expiry first. Exhausted batches are omitted.
// @Tags         inventory
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventory.BatchAvailability]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/product/{productId}/batches [get]
func (h *InventoryHandler) ListProductBatches(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}

	batches, err := h.inventoryService.ListBatchesForProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if batches == nil {
		batches = []inventory.BatchAvailability{}
	}
	h.Success(c, batches)
}

// ReceiveBatch godoc
// @ID           receiveStockBatch
// @Summary      Receive a stock batch
// @Description  Book a purchased lot into stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body appinventory.ReceiveBatchRequest true "Batch to receive"
// @Success      201 {object} APIResponse[appinventory.StockBatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/batches [post]
func (h *InventoryHandler) ReceiveBatch(c *gin.Context) {
	var req appinventory.ReceiveBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := h.inventoryService.ReceiveBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}
