package handler

import (
	"github.com/gin-gonic/gin"
	batchapp "github.com/masgolf/backend/internal/application/batch"
)

// BatchHandler submits and tracks batch content jobs
type BatchHandler struct {
	BaseHandler
	batchService *batchapp.Service
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *batchapp.Service) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Submit godoc
// @ID           submitBatchJob
// @Summary      Queue a batch of URLs
// @Description  Each URL is scraped, analyzed and illustrated in order on the background workers
// @Tags         batch
// @Accept       json
// @Produce      json
// @Param        request body batchapp.SubmitRequest true "URLs"
// @Success      202 {object} APIResponse[batchapp.JobResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /batch/jobs [post]
func (h *BatchHandler) Submit(c *gin.Context) {
	var req batchapp.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.batchService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, resp)
}

// Get godoc
// @ID           getBatchJob
// @Summary      Job progress and results
// @Tags         batch
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} APIResponse[batchapp.JobResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /batch/jobs/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the latest jobs first
func (h *BatchHandler) List(c *gin.Context) {
	var filter batchapp.ListJobsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.batchService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}
