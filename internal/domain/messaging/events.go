package messaging

import "github.com/masgolf/backend/internal/domain/shared"

const EventTypeCampaignSent = "campaign.sent"

// CampaignSentEvent is raised after a campaign send finishes, successful or not
type CampaignSentEvent struct {
	shared.BaseDomainEvent
	Status       Status `json:"status"`
	Attempted    int    `json:"attempted"`
	SuccessCount int    `json:"success_count"`
	FailCount    int    `json:"fail_count"`
	DryRun       bool   `json:"dry_run"`
}

// NewCampaignSentEvent builds the event from the campaign's final counters
func NewCampaignSentEvent(c *ChannelSMS, dryRun bool) *CampaignSentEvent {
	return &CampaignSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignSent, c.ID),
		Status:          c.Status,
		Attempted:       c.SentCount,
		SuccessCount:    c.SuccessCount,
		FailCount:       c.FailCount,
		DryRun:          dryRun,
	}
}
