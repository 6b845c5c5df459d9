package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/masgolf/backend/internal/application/analytics"
	messagingapp "github.com/masgolf/backend/internal/application/messaging"
)

// CronHandler exposes the periodic tasks to an external scheduler. The
// in-process scheduler runs the same service calls.
type CronHandler struct {
	BaseHandler
	campaigns *messagingapp.Service
	analytics *analyticsapp.Service
	monitor   analyticsapp.MonitorConfig
	now       func() time.Time
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(campaigns *messagingapp.Service, analytics *analyticsapp.Service, monitor analyticsapp.MonitorConfig) *CronHandler {
	return &CronHandler{campaigns: campaigns, analytics: analytics, monitor: monitor, now: time.Now}
}

// DispatchSMS godoc
// @ID           cronDispatchSMS
// @Summary      Send due scheduled campaigns
// @Tags         cron
// @Produce      json
// @Success      200 {object} APIResponse[messagingapp.DispatchSummary]
// @Failure      401 {object} ErrorResponse
// @Security     CronSecret
// @Router       /cron/send-scheduled-sms [post]
func (h *CronHandler) DispatchSMS(c *gin.Context) {
	resp, err := h.campaigns.DispatchScheduled(c.Request.Context(), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MonitorABTest godoc
// @ID           cronMonitorABTest
// @Summary      Promote a conclusive A/B winner
// @Tags         cron
// @Produce      json
// @Success      200 {object} APIResponse[analyticsapp.MonitorOutcome]
// @Failure      401 {object} ErrorResponse
// @Security     CronSecret
// @Router       /cron/ab-test-monitor [post]
func (h *CronHandler) MonitorABTest(c *gin.Context) {
	resp, err := h.analytics.Monitor(c.Request.Context(), h.monitor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
