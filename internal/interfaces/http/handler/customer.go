package handler

import (
	"github.com/gin-gonic/gin"
	customerapp "github.com/masgolf/backend/internal/application/customer"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.Service) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// OptOutRequest toggles SMS opt-out
// @Description Request body for changing SMS consent
type OptOutRequest struct {
	OptOut bool `json:"opt_out" example:"true"`
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  Create a customer. The phone number is normalized to 010XXXXXXXX and must be unique.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Search by name or phone and filter by purchase and opt-out state
// @Tags         customers
// @Produce      json
// @Param        q query string false "Name or phone"
// @Param        purchased query bool false "Purchasers only"
// @Param        opt_out query bool false "Opt-out state"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} PageResponse[[]customerapp.CustomerResponse]
// @Security     SessionAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter customerapp.ListCustomersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.UpdateCustomerRequest true "Fields to change"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetOptOut godoc
// @ID           setCustomerOptOut
// @Summary      Change SMS consent
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body OptOutRequest true "Opt-out flag"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     SessionAuth
// @Router       /customers/{id}/opt-out [put]
func (h *CustomerHandler) SetOptOut(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req OptOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.customerService.SetOptOut(c.Request.Context(), id, req.OptOut)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Segments godoc
// @ID           customerSegments
// @Summary      Audience size per segment
// @Description  Purchaser and distance buckets used to plan split SMS campaigns
// @Tags         customers
// @Produce      json
// @Success      200 {object} APIResponse[customerapp.SegmentsResponse]
// @Security     SessionAuth
// @Router       /customers/segments [get]
func (h *CustomerHandler) Segments(c *gin.Context) {
	resp, err := h.customerService.Segments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
