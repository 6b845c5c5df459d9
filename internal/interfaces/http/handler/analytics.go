package handler

import (
	"github.com/gin-gonic/gin"
	analyticsapp "github.com/masgolf/backend/internal/application/analytics"
)

// AnalyticsHandler serves A/B funnel results and the live-variant settings
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Results godoc
// @ID           abTestResults
// @Summary      Compare funnel versions
// @Description  Always answers 200. When GA4 is unreachable the body carries placeholder numbers and status "mock_data".
// @Tags         analytics
// @Produce      json
// @Param        funnel query string false "Funnel test name"
// @Param        versions query string false "Comma separated versions"
// @Param        dateRange query string false "Range" Enums(today, week, month)
// @Success      200 {object} APIResponse[analytics.Comparison]
// @Security     SessionAuth
// @Router       /analytics/ab-test/results [get]
func (h *AnalyticsHandler) Results(c *gin.Context) {
	var q analyticsapp.ResultsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.analyticsService.Results(c.Request.Context(), q))
}

// GetSettings godoc
// @ID           getAbTestSettings
// @Summary      Live variant of a funnel test
// @Tags         analytics
// @Produce      json
// @Param        test path string true "Test name"
// @Success      200 {object} APIResponse[analyticsapp.SettingsResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /analytics/ab-test/settings/{test} [get]
func (h *AnalyticsHandler) GetSettings(c *gin.Context) {
	resp, err := h.analyticsService.GetSettings(c.Request.Context(), c.Param("test"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings godoc
// @ID           updateAbTestSettings
// @Summary      Pin the live variant of a funnel test
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Param        test path string true "Test name"
// @Param        request body analyticsapp.SettingsRequest true "Settings"
// @Success      200 {object} APIResponse[analyticsapp.SettingsResponse]
// @Security     SessionAuth
// @Router       /analytics/ab-test/settings/{test} [put]
func (h *AnalyticsHandler) UpdateSettings(c *gin.Context) {
	var req analyticsapp.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.analyticsService.UpdateSettings(c.Request.Context(), c.Param("test"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
