package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/masgolf/backend/internal/application/catalog"
)

// HardDeleteHeader switches product deletion from deactivation to removal
const HardDeleteHeader = "X-Hard-Delete"

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  With distinct_categories=true only the category names are returned
// @Tags         products
// @Produce      json
// @Param        q query string false "Name or SKU"
// @Param        category query string false "Category"
// @Param        is_gift query bool false "Gift products"
// @Param        is_sellable query bool false "Sellable products"
// @Param        is_active query bool false "Active products"
// @Param        is_component query bool false "Components"
// @Param        condition query string false "Condition"
// @Param        product_type query string false "Product type"
// @Param        min_price query string false "Minimum price"
// @Param        max_price query string false "Maximum price"
// @Param        sort_by query string false "Sort column" Enums(name, sku, category, price, created_at, updated_at)
// @Param        sort_order query string false "Sort order" Enums(asc, desc)
// @Param        distinct_categories query bool false "Return categories only"
// @Success      200 {object} APIResponse[catalogapp.ListProductsResponse]
// @Security     SessionAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ListProductsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     SessionAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Deactivate or remove a product
// @Description  Deactivates by default. With X-Hard-Delete: true the product and its inventory transactions are removed.
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Param        X-Hard-Delete header bool false "Remove instead of deactivating"
// @Success      204
// @Security     SessionAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	hard := strings.EqualFold(c.GetHeader(HardDeleteHeader), "true")
	if err := h.productService.Delete(c.Request.Context(), id, hard); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
