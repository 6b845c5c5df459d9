package handler

import (
	"github.com/gin-gonic/gin"
	surveyapp "github.com/masgolf/backend/internal/application/survey"
)

// SurveyHandler serves customer questionnaires
type SurveyHandler struct {
	BaseHandler
	surveyService *surveyapp.Service
}

// NewSurveyHandler creates a new SurveyHandler
func NewSurveyHandler(surveyService *surveyapp.Service) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// Create godoc
// @ID           createSurvey
// @Summary      Submit a survey
// @Description  Links the survey to the customer with the same phone, creating one if needed
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        request body surveyapp.CreateSurveyRequest true "Survey"
// @Success      201 {object} APIResponse[surveyapp.SurveyResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /surveys [post]
func (h *SurveyHandler) Create(c *gin.Context) {
	var req surveyapp.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.surveyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one survey
func (h *SurveyHandler) GetByID(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.surveyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listSurveys
// @Summary      List surveys
// @Tags         surveys
// @Produce      json
// @Param        q query string false "Name or phone"
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        selected_model query string false "Model"
// @Param        gift_delivered query bool false "Gift delivered"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} PageResponse[[]surveyapp.SurveyResponse]
// @Security     SessionAuth
// @Router       /surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	var filter surveyapp.ListSurveysFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	customerID, ok := h.queryUUID(c, "customer_id")
	if !ok {
		return
	}
	filter.CustomerID = customerID

	page, err := h.surveyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Update applies a partial survey update
func (h *SurveyHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req surveyapp.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.surveyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a survey
func (h *SurveyHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.surveyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
