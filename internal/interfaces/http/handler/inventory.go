package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/masgolf/backend/internal/application/inventory"
)

// InventoryHandler handles stock movements and the inventory dashboard
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RecordTransaction godoc
// @ID           recordInventoryTransaction
// @Summary      Record a stock movement
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.RecordTransactionRequest true "Movement"
// @Success      201 {object} APIResponse[inventoryapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /inventory/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	var req inventoryapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.inventoryService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTransactions godoc
// @ID           listInventoryTransactions
// @Summary      List stock movements
// @Tags         inventory
// @Produce      json
// @Param        product_id query string false "Product" format(uuid)
// @Param        tx_type query string false "Type" Enums(inbound, outbound, scrap, adjustment)
// @Param        date_from query string false "From date"
// @Param        date_to query string false "To date"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} PageResponse[[]inventoryapp.TransactionResponse]
// @Security     SessionAuth
// @Router       /inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var filter inventoryapp.ListTransactionsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	productID, ok := h.queryUUID(c, "product_id")
	if !ok {
		return
	}
	filter.ProductID = productID

	page, err := h.inventoryService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Stock returns the current stock of one product
func (h *InventoryHandler) Stock(c *gin.Context) {
	id, ok := h.pathUUID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.inventoryService.StockOf(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Dashboard godoc
// @ID           inventoryDashboard
// @Summary      Inventory dashboard
// @Description  Totals, per-category stats, low-stock products and the latest movements
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[inventory.Dashboard]
// @Security     SessionAuth
// @Router       /inventory/dashboard [get]
func (h *InventoryHandler) Dashboard(c *gin.Context) {
	resp, err := h.inventoryService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
