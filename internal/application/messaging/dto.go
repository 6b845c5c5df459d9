package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/messaging"
)

// CreateCampaignRequest represents a request to create an SMS campaign draft
type CreateCampaignRequest struct {
	MessageText      string     `json:"message_text" binding:"required,max=2000"`
	MessageType      string     `json:"message_type" binding:"omitempty,oneof=SMS LMS MMS SMS300"`
	ImageURL         string     `json:"image_url" binding:"max=2000"`
	ShortLink        string     `json:"short_link" binding:"max=500"`
	RecipientNumbers []string   `json:"recipient_numbers"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	Note             string     `json:"note" binding:"max=1000"`
}

// UpdateCampaignRequest represents a partial draft update
type UpdateCampaignRequest struct {
	MessageText      *string    `json:"message_text" binding:"omitempty,min=1,max=2000"`
	MessageType      *string    `json:"message_type" binding:"omitempty,oneof=SMS LMS MMS SMS300"`
	ImageURL         *string    `json:"image_url" binding:"omitempty,max=2000"`
	ShortLink        *string    `json:"short_link" binding:"omitempty,max=500"`
	RecipientNumbers []string   `json:"recipient_numbers"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	ClearSchedule    bool       `json:"clear_schedule"`
	Note             *string    `json:"note" binding:"omitempty,max=1000"`
}

// ListCampaignsFilter represents filter options for the campaign list
type ListCampaignsFilter struct {
	Search   string `form:"q"`
	Status   string `form:"status" binding:"omitempty,oneof=draft sent partial failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=1000"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SplitRequest divides a draft's recipients into n variant drafts
type SplitRequest struct {
	Variants int `json:"variants" binding:"required,min=2,max=5"`
}

// KakaoSendRequest represents a Kakao friend-talk or alimtalk send
type KakaoSendRequest struct {
	Recipients []string          `json:"recipients" binding:"required,min=1"`
	Text       string            `json:"text" binding:"required,max=1000"`
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables"`
	ButtonURL  string            `json:"button_url" binding:"omitempty,url"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID               uuid.UUID  `json:"id"`
	MessageText      string     `json:"message_text"`
	MessageType      string     `json:"message_type"`
	ImageURL         string     `json:"image_url,omitempty"`
	ShortLink        string     `json:"short_link,omitempty"`
	RecipientNumbers []string   `json:"recipient_numbers"`
	Status           string     `json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	SentAt           *time.Time `json:"sent_at,omitempty"`
	SolapiGroupID    string     `json:"solapi_group_id,omitempty"`
	SentCount        int        `json:"sent_count"`
	SuccessCount     int        `json:"success_count"`
	FailCount        int        `json:"fail_count"`
	Variant          string     `json:"variant,omitempty"`
	Purpose          string     `json:"purpose,omitempty"`
	BookingID        *uuid.UUID `json:"booking_id,omitempty"`
	Note             string     `json:"note,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToCampaignResponse converts a domain campaign to a response
func ToCampaignResponse(c *messaging.ChannelSMS) CampaignResponse {
	return CampaignResponse{
		ID:               c.ID,
		MessageText:      c.MessageText,
		MessageType:      string(c.MessageType),
		ImageURL:         c.ImageURL,
		ShortLink:        c.ShortLink,
		RecipientNumbers: c.RecipientNumbers,
		Status:           string(c.Status),
		ScheduledAt:      c.ScheduledAt,
		SentAt:           c.SentAt,
		SolapiGroupID:    c.SolapiGroupID,
		SentCount:        c.SentCount,
		SuccessCount:     c.SuccessCount,
		FailCount:        c.FailCount,
		Variant:          c.Variant,
		Purpose:          c.Purpose,
		BookingID:        c.BookingID,
		Note:             c.Note,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// SkippedRecipients counts numbers filtered out before sending
type SkippedRecipients struct {
	Invalid     int `json:"invalid"`
	OptedOut    int `json:"opted_out"`
	AlreadySent int `json:"already_sent"`
}

// SendResponse is the outcome of one campaign send
type SendResponse struct {
	CampaignID   uuid.UUID         `json:"campaign_id"`
	Status       string            `json:"status"`
	MessageType  string            `json:"message_type"`
	Attempted    int               `json:"attempted"`
	SuccessCount int               `json:"success_count"`
	FailCount    int               `json:"fail_count"`
	GroupIDs     []string          `json:"group_ids"`
	Skipped      SkippedRecipients `json:"skipped"`
	DryRun       bool              `json:"dry_run"`
}

// DispatchSummary reports one scheduled dispatch run
type DispatchSummary struct {
	Due    int            `json:"due"`
	Sent   int            `json:"sent"`
	Failed int            `json:"failed"`
	Items  []SendResponse `json:"items"`
}

// KakaoSendResponse is the outcome of a Kakao send
type KakaoSendResponse struct {
	Attempted    int      `json:"attempted"`
	SuccessCount int      `json:"success_count"`
	FailCount    int      `json:"fail_count"`
	GroupIDs     []string `json:"group_ids"`
	Invalid      int      `json:"invalid"`
	OptedOut     int      `json:"opted_out"`
}
