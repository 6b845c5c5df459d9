package handler

import (
	"github.com/gin-gonic/gin"
	giftapp "github.com/masgolf/backend/internal/application/gift"
)

// GiftHandler handles customer gift endpoints
type GiftHandler struct {
	BaseHandler
	giftService *giftapp.Service
}

// NewGiftHandler creates a new GiftHandler
func NewGiftHandler(giftService *giftapp.Service) *GiftHandler {
	return &GiftHandler{giftService: giftService}
}

// Create godoc
// @ID           createGift
// @Summary      Record a gift
// @Description  Links the customer's survey when none is given. A gift product is taken out of stock on the delivery date.
// @Tags         gifts
// @Accept       json
// @Produce      json
// @Param        request body giftapp.CreateGiftRequest true "Gift"
// @Success      201 {object} APIResponse[giftapp.GiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /gifts [post]
func (h *GiftHandler) Create(c *gin.Context) {
	var req giftapp.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.giftService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one gift
func (h *GiftHandler) GetByID(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.giftService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listGifts
// @Summary      Gifts of a customer or a survey
// @Tags         gifts
// @Produce      json
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        survey_id query string false "Survey" format(uuid)
// @Success      200 {object} APIResponse[[]giftapp.GiftResponse]
// @Failure      400 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /gifts [get]
func (h *GiftHandler) List(c *gin.Context) {
	var filter giftapp.ListGiftsFilter
	var ok bool
	if filter.CustomerID, ok = h.queryUUID(c, "customer_id"); !ok {
		return
	}
	if filter.SurveyID, ok = h.queryUUID(c, "survey_id"); !ok {
		return
	}
	resp, err := h.giftService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateGift
// @Summary      Update a gift
// @Description  Moving delivery_date also moves the related stock movements
// @Tags         gifts
// @Accept       json
// @Produce      json
// @Param        id path string true "Gift ID" format(uuid)
// @Param        request body giftapp.UpdateGiftRequest true "Fields to change"
// @Success      200 {object} APIResponse[giftapp.GiftResponse]
// @Failure      400 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /gifts/{id} [put]
func (h *GiftHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req giftapp.UpdateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.giftService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a gift and its stock movements
func (h *GiftHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.giftService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
