package messaging

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// MessageType is the Solapi message kind
type MessageType string

const (
	TypeSMS MessageType = "SMS"
	TypeLMS MessageType = "LMS"
	TypeMMS MessageType = "MMS"
	// TypeSMS300 is the admin UI's "long SMS up to 300 chars", sent as LMS
	TypeSMS300 MessageType = "SMS300"
)

// Status is the campaign send state
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// PurposeBookingReminder marks drafts created by booking reminders
const PurposeBookingReminder = "booking_reminder_2h"

// ChannelSMS is an SMS/LMS/MMS campaign
type ChannelSMS struct {
	shared.BaseEntity
	MessageText      string      `gorm:"type:text;not null" json:"message_text"`
	MessageType      MessageType `gorm:"type:varchar(10);not null;default:'SMS300'" json:"message_type"`
	ImageURL         string      `gorm:"type:text" json:"image_url,omitempty"`
	ShortLink        string      `gorm:"type:text" json:"short_link,omitempty"`
	RecipientNumbers []string    `gorm:"serializer:json;type:jsonb" json:"recipient_numbers"`
	Status           Status      `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ScheduledAt      *time.Time  `gorm:"index" json:"scheduled_at,omitempty"`
	SentAt           *time.Time  `json:"sent_at,omitempty"`
	SolapiGroupID    string      `gorm:"column:solapi_group_id;type:text" json:"solapi_group_id,omitempty"`
	SentCount        int         `gorm:"not null;default:0" json:"sent_count"`
	SuccessCount     int         `gorm:"not null;default:0" json:"success_count"`
	FailCount        int         `gorm:"not null;default:0" json:"fail_count"`
	Variant          string      `gorm:"type:varchar(5)" json:"variant,omitempty"`
	Purpose          string      `gorm:"type:varchar(50)" json:"purpose,omitempty"`
	BookingID        *uuid.UUID  `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	Note             string      `gorm:"type:text" json:"note,omitempty"`
}

// TableName returns the table name for GORM
func (ChannelSMS) TableName() string {
	return "channel_sms"
}

// NewChannelSMS creates a draft campaign
func NewChannelSMS(text string, msgType MessageType, recipients []string) (*ChannelSMS, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shared.InvalidInput("message_text is required")
	}
	if msgType == "" {
		msgType = TypeSMS300
	}
	switch msgType {
	case TypeSMS, TypeLMS, TypeMMS, TypeSMS300:
	default:
		return nil, shared.InvalidInput("message_type must be SMS, LMS, MMS or SMS300")
	}
	if recipients == nil {
		recipients = []string{}
	}
	return &ChannelSMS{
		BaseEntity:       shared.NewBaseEntity(),
		MessageText:      text,
		MessageType:      msgType,
		RecipientNumbers: recipients,
		Status:           StatusDraft,
	}, nil
}

// Body is the message text with the short link appended
func (c *ChannelSMS) Body() string {
	if c.ShortLink == "" {
		return c.MessageText
	}
	return c.MessageText + "\n\n링크: " + c.ShortLink
}

// SendType resolves the type actually submitted to Solapi
func (c *ChannelSMS) SendType() MessageType {
	return ResolveType(c.MessageType, c.ImageURL != "")
}

// IsDue reports whether a scheduled draft should go out at now
func (c *ChannelSMS) IsDue(now time.Time) bool {
	return c.Status == StatusDraft && c.ScheduledAt != nil && !c.ScheduledAt.After(now)
}

// Fail marks the campaign failed and clears its schedule
func (c *ChannelSMS) Fail() {
	c.Status = StatusFailed
	c.ScheduledAt = nil
	c.Touch()
}

// Complete records a finished send. The schedule is kept for history.
func (c *ChannelSMS) Complete(r Outcome, now time.Time) {
	c.Status = r.Status()
	c.SolapiGroupID = strings.Join(r.GroupIDs, ",")
	c.SentAt = &now
	c.SentCount = r.Attempted
	c.SuccessCount = r.Success
	c.FailCount = r.Fail
	c.Touch()
}

// ResolveType maps SMS300 to LMS and downgrades image-less MMS to LMS
func ResolveType(t MessageType, hasImage bool) MessageType {
	switch {
	case t == "" || t == TypeSMS300:
		return TypeLMS
	case t == TypeMMS && !hasImage:
		return TypeLMS
	default:
		return t
	}
}

// Outcome aggregates the chunks of one send
type Outcome struct {
	GroupIDs  []string
	Attempted int
	Success   int
	Fail      int
}

// Status is sent with no failures, partial with some successes, failed otherwise
func (o Outcome) Status() Status {
	return ResolveStatus(o.Success, o.Fail)
}

// ResolveStatus derives the final campaign status from delivery counts
func ResolveStatus(success, fail int) Status {
	switch {
	case fail == 0:
		return StatusSent
	case success > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// MessageLog records one recipient of one campaign; unique on (content_id, customer_phone)
type MessageLog struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ContentID     string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_message_logs_content_phone" json:"content_id"`
	CustomerPhone string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_message_logs_content_phone" json:"customer_phone"`
	CustomerID    *uuid.UUID `gorm:"type:uuid" json:"customer_id,omitempty"`
	MessageType   string     `gorm:"type:varchar(10)" json:"message_type"`
	Status        string     `gorm:"type:varchar(20);not null" json:"status"`
	Channel       string     `gorm:"type:varchar(20);not null" json:"channel"`
	SentAt        time.Time  `json:"sent_at"`
}

// TableName returns the table name for GORM
func (MessageLog) TableName() string {
	return "message_logs"
}
