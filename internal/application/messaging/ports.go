package messaging

import (
	"context"

	"github.com/masgolf/backend/internal/domain/messaging"
)

// OutboundMessage is one Solapi message
type OutboundMessage struct {
	To      string
	Text    string
	Type    messaging.MessageType
	Subject string
	ImageID string
}

// KakaoMessage is a Kakao friend-talk or alimtalk message
type KakaoMessage struct {
	To         string
	Text       string
	TemplateID string            // empty for friend-talk
	Variables  map[string]string // template variables, e.g. "#{고객명}"
	ButtonURL  string
}

// RecipientResult is the delivery registration outcome of one recipient
type RecipientResult struct {
	To      string
	Success bool
	Code    string
	Message string
}

// SendResult is the response to one send-many call
type SendResult struct {
	GroupID string
	Results []RecipientResult
}

// Counts returns the number of successful and failed recipients
func (r *SendResult) Counts() (success, fail int) {
	for _, res := range r.Results {
		if res.Success {
			success++
		} else {
			fail++
		}
	}
	return success, fail
}

// SMSGateway sends messages through the SMS provider
type SMSGateway interface {
	// SendMany sends one chunk of at most messaging.MaxChunk messages
	SendMany(ctx context.Context, msgs []OutboundMessage) (*SendResult, error)
	// SendKakao sends Kakao messages with the SMS fallback disabled
	SendKakao(ctx context.Context, msgs []KakaoMessage) (*SendResult, error)
	// UploadImage registers an MMS image by URL and returns its provider file id
	UploadImage(ctx context.Context, imageURL string) (string, error)
}

// CampaignMetrics records campaign send counters
type CampaignMetrics interface {
	RecordCampaignSend(ctx context.Context, status string, success, fail int)
}
