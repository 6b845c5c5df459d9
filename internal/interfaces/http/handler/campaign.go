package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	messagingapp "github.com/masgolf/backend/internal/application/messaging"
)

// CampaignHandler handles SMS campaign and Kakao endpoints
type CampaignHandler struct {
	BaseHandler
	campaignService *messagingapp.Service
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *messagingapp.Service) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create godoc
// @ID           createCampaign
// @Summary      Create an SMS campaign draft
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body messagingapp.CreateCampaignRequest true "Draft"
// @Success      201 {object} APIResponse[messagingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	var req messagingapp.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.campaignService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one campaign
func (h *CampaignHandler) GetByID(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.campaignService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listCampaigns
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Param        q query string false "Message text"
// @Param        status query string false "Status" Enums(draft, sent, partial, failed)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} PageResponse[[]messagingapp.CampaignResponse]
// @Security     SessionAuth
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	var filter messagingapp.ListCampaignsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.campaignService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Update edits a draft
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req messagingapp.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.campaignService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.campaignService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send godoc
// @ID           sendCampaign
// @Summary      Send a campaign
// @Description  Drops invalid, opted-out and already-messaged numbers, then sends in chunks of 200. dry_run reports the plan without sending.
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        dry_run query bool false "Plan only"
// @Success      200 {object} APIResponse[messagingapp.SendResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /campaigns/{id}/send [post]
func (h *CampaignHandler) Send(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.campaignService.Send(c.Request.Context(), id, queryBool(c, "dry_run"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Split godoc
// @ID           splitCampaign
// @Summary      Split a draft into A/B variants
// @Description  The i-th unique recipient goes to variant i mod n
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body messagingapp.SplitRequest true "Variant count"
// @Success      201 {object} APIResponse[[]messagingapp.CampaignResponse]
// @Security     SessionAuth
// @Router       /campaigns/{id}/split [post]
func (h *CampaignHandler) Split(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req messagingapp.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.campaignService.Split(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ExportRecipients godoc
// @ID           exportCampaignRecipients
// @Summary      Download the recipients as CSV
// @Tags         campaigns
// @Produce      text/csv
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {file} file
// @Security     SessionAuth
// @Router       /campaigns/{id}/recipients.csv [get]
func (h *CampaignHandler) ExportRecipients(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.campaignService.ExportRecipients(c.Request.Context(), id, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="campaign-%s.csv"`, id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// SendKakao godoc
// @ID           sendKakao
// @Summary      Send a Kakao friend-talk message
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body messagingapp.KakaoSendRequest true "Message"
// @Success      200 {object} APIResponse[messagingapp.KakaoSendResponse]
// @Failure      503 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /kakao/send [post]
func (h *CampaignHandler) SendKakao(c *gin.Context) {
	var req messagingapp.KakaoSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.campaignService.SendKakao(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
