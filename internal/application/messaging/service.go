// Package messaging implements SMS and Kakao campaigns.
package messaging

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

const (
	logChannel     = "solapi"
	logStatusSent  = "sent"
	logStatusFail  = "failed"
	dryRunGroupFmt = "DRY-RUN-%s-%d"
)

// ErrGatewayDisabled is returned when a real send is requested without an SMS gateway
var ErrGatewayDisabled = shared.NewDomainError("GATEWAY_DISABLED", "SMS gateway is not configured")

// Service handles campaign use cases
type Service struct {
	campaigns messaging.Repository
	logs      messaging.LogRepository
	customers customer.Repository
	sms       SMSGateway
	events    shared.EventPublisher
	metrics   CampaignMetrics
	chunkSize int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new campaign Service
func NewService(
	campaigns messaging.Repository,
	logs messaging.LogRepository,
	customers customer.Repository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		campaigns: campaigns,
		logs:      logs,
		customers: customers,
		chunkSize: messaging.MaxChunk,
		logger:    logger,
		now:       time.Now,
	}
}

// SetSMSGateway sets the provider used for real sends
func (s *Service) SetSMSGateway(gw SMSGateway) {
	s.sms = gw
}

// SetEventPublisher sets the domain event publisher
func (s *Service) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// SetMetrics sets the campaign counters
func (s *Service) SetMetrics(m CampaignMetrics) {
	s.metrics = m
}

// SetChunkSize overrides the send-many batch size, capped at messaging.MaxChunk
func (s *Service) SetChunkSize(n int) {
	if n > 0 && n <= messaging.MaxChunk {
		s.chunkSize = n
	}
}

// Create stores a new draft campaign
func (s *Service) Create(ctx context.Context, req CreateCampaignRequest) (*CampaignResponse, error) {
	c, err := messaging.NewChannelSMS(req.MessageText, messaging.MessageType(req.MessageType), cleanNumbers(req.RecipientNumbers))
	if err != nil {
		return nil, err
	}
	c.ImageURL = strings.TrimSpace(req.ImageURL)
	c.ShortLink = strings.TrimSpace(req.ShortLink)
	c.ScheduledAt = req.ScheduledAt
	c.Note = req.Note

	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Campaign created",
		zap.String("campaign_id", c.ID.String()),
		zap.Int("recipients", len(c.RecipientNumbers)))
	resp := ToCampaignResponse(c)
	return &resp, nil
}

// GetByID returns a campaign
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CampaignResponse, error) {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(c)
	return &resp, nil
}

// List returns a page of campaigns
func (s *Service) List(ctx context.Context, f ListCampaignsFilter) (shared.Paginated[CampaignResponse], error) {
	filter := messaging.ListFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		Status: messaging.Status(f.Status),
	}
	items, total, err := s.campaigns.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CampaignResponse]{}, err
	}
	out := make([]CampaignResponse, len(items))
	for i := range items {
		out[i] = ToCampaignResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update edits a draft. Sent campaigns are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCampaignRequest) (*CampaignResponse, error) {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != messaging.StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "only draft campaigns can be edited")
	}

	if req.MessageText != nil {
		if strings.TrimSpace(*req.MessageText) == "" {
			return nil, shared.InvalidInput("message_text is required")
		}
		c.MessageText = *req.MessageText
	}
	if req.MessageType != nil {
		c.MessageType = messaging.MessageType(*req.MessageType)
	}
	if req.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.ShortLink != nil {
		c.ShortLink = strings.TrimSpace(*req.ShortLink)
	}
	if req.RecipientNumbers != nil {
		c.RecipientNumbers = cleanNumbers(req.RecipientNumbers)
	}
	switch {
	case req.ClearSchedule:
		c.ScheduledAt = nil
	case req.ScheduledAt != nil:
		c.ScheduledAt = req.ScheduledAt
	}
	if req.Note != nil {
		c.Note = *req.Note
	}
	c.Touch()

	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(c)
	return &resp, nil
}

// Delete removes a campaign
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.campaigns.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Campaign deleted", zap.String("campaign_id", id.String()))
	return nil
}

// Send delivers a draft campaign. A dry run walks the same pipeline but never
// calls the gateway and leaves logs and campaign status untouched.
func (s *Service) Send(ctx context.Context, id uuid.UUID, dryRun bool) (*SendResponse, error) {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != messaging.StatusDraft && !dryRun {
		return nil, shared.NewDomainError("INVALID_STATE", "campaign has already been sent")
	}
	if !dryRun && s.sms == nil {
		return nil, ErrGatewayDisabled
	}
	return s.send(ctx, c, dryRun)
}

// DispatchScheduled sends every draft whose scheduled time has passed.
// A campaign that errors is marked failed and the run continues.
func (s *Service) DispatchScheduled(ctx context.Context, now time.Time) (*DispatchSummary, error) {
	if s.sms == nil {
		return nil, ErrGatewayDisabled
	}
	due, err := s.campaigns.FindDue(ctx, now)
	if err != nil {
		return nil, err
	}
	summary := &DispatchSummary{Due: len(due), Items: make([]SendResponse, 0, len(due))}
	for i := range due {
		c := &due[i]
		if !c.IsDue(now) {
			continue
		}
		resp, err := s.send(ctx, c, false)
		if err != nil {
			s.logger.Error("Scheduled campaign failed",
				zap.String("campaign_id", c.ID.String()),
				zap.Error(err))
			c.Fail()
			if saveErr := s.campaigns.Save(ctx, c); saveErr != nil {
				s.logger.Error("Failed to mark campaign failed", zap.Error(saveErr))
			}
			summary.Failed++
			continue
		}
		summary.Items = append(summary.Items, *resp)
		if resp.Status == string(messaging.StatusFailed) {
			summary.Failed++
		} else {
			summary.Sent++
		}
	}
	if summary.Due > 0 {
		s.logger.Info("Scheduled campaigns dispatched",
			zap.Int("due", summary.Due),
			zap.Int("sent", summary.Sent),
			zap.Int("failed", summary.Failed))
	}
	return summary, nil
}

func (s *Service) send(ctx context.Context, c *messaging.ChannelSMS, dryRun bool) (*SendResponse, error) {
	resp := &SendResponse{CampaignID: c.ID, DryRun: dryRun, GroupIDs: []string{}}

	valid, invalid := messaging.ValidRecipients(c.RecipientNumbers)
	resp.Skipped.Invalid = len(invalid)
	if len(valid) == 0 {
		return s.finishFailed(ctx, c, resp, "no valid recipients")
	}

	optedOut, err := s.customers.OptedOutPhones(ctx, valid)
	if err != nil {
		s.logger.Warn("Opt-out lookup failed, sending to all", zap.Error(err))
	}
	candidates := messaging.Exclude(valid, optedOut)
	resp.Skipped.OptedOut = len(valid) - len(candidates)
	if len(candidates) == 0 {
		return s.finishFailed(ctx, c, resp, "every recipient opted out")
	}

	contentID := c.ID.String()
	already, err := s.logs.SentPhones(ctx, contentID)
	if err != nil {
		s.logger.Warn("Duplicate check failed, sending to all", zap.Error(err))
	}
	toSend := messaging.Exclude(candidates, already)
	resp.Skipped.AlreadySent = len(candidates) - len(toSend)

	msgType, imageID := s.resolveImage(ctx, c, dryRun)
	resp.MessageType = string(msgType)

	var outcome messaging.Outcome
	phoneStatus := make(map[string]string, len(toSend))
	body := c.Body()
	for n, chunk := range messaging.Chunk(toSend, s.chunkSize) {
		outcome.Attempted += len(chunk)
		if dryRun {
			outcome.GroupIDs = append(outcome.GroupIDs, fmt.Sprintf(dryRunGroupFmt, contentID, n+1))
			outcome.Success += len(chunk)
			continue
		}

		msgs := make([]OutboundMessage, len(chunk))
		for i, to := range chunk {
			msgs[i] = OutboundMessage{To: to, Text: body, Type: msgType, ImageID: imageID}
		}
		res, err := s.sms.SendMany(ctx, msgs)
		if err != nil {
			s.logger.Error("Campaign chunk failed",
				zap.String("campaign_id", contentID),
				zap.Int("chunk", n+1),
				zap.Error(err))
			outcome.Fail += len(chunk)
			for _, to := range chunk {
				phoneStatus[to] = logStatusFail
			}
			continue
		}
		if res.GroupID != "" {
			outcome.GroupIDs = append(outcome.GroupIDs, res.GroupID)
		}
		for _, to := range chunk {
			phoneStatus[to] = logStatusSent
		}
		for _, r := range res.Results {
			if !r.Success {
				phoneStatus[r.To] = logStatusFail
			}
		}
		if len(res.Results) == 0 {
			outcome.Success += len(chunk)
			continue
		}
		success, fail := res.Counts()
		outcome.Success += success
		outcome.Fail += fail
	}

	resp.Attempted = outcome.Attempted
	resp.SuccessCount = outcome.Success
	resp.FailCount = outcome.Fail
	resp.Status = string(outcome.Status())
	if len(outcome.GroupIDs) > 0 {
		resp.GroupIDs = outcome.GroupIDs
	}
	if dryRun {
		return resp, nil
	}

	now := s.now()
	s.writeLogs(ctx, contentID, toSend, phoneStatus, msgType, now)
	c.Complete(outcome, now)
	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	s.afterSend(ctx, c)

	s.logger.Info("Campaign sent",
		zap.String("campaign_id", contentID),
		zap.String("status", string(c.Status)),
		zap.Int("success", outcome.Success),
		zap.Int("fail", outcome.Fail))
	return resp, nil
}

// resolveImage picks the submitted type. An MMS image given as an http(s) URL
// is uploaded first; if that fails the message goes out as LMS.
func (s *Service) resolveImage(ctx context.Context, c *messaging.ChannelSMS, dryRun bool) (messaging.MessageType, string) {
	msgType := c.SendType()
	if msgType != messaging.TypeMMS {
		return msgType, ""
	}
	lower := strings.ToLower(c.ImageURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return msgType, c.ImageURL
	}
	if dryRun {
		return msgType, ""
	}
	imageID, err := s.sms.UploadImage(ctx, c.ImageURL)
	if err != nil || imageID == "" {
		s.logger.Warn("MMS image upload failed, sending as LMS",
			zap.String("campaign_id", c.ID.String()),
			zap.Error(err))
		return messaging.TypeLMS, ""
	}
	return msgType, imageID
}

func (s *Service) writeLogs(ctx context.Context, contentID string, phones []string, status map[string]string, msgType messaging.MessageType, now time.Time) {
	if len(phones) == 0 {
		return
	}
	logs := make([]messaging.MessageLog, len(phones))
	for i, phone := range phones {
		logs[i] = messaging.MessageLog{
			ContentID:     contentID,
			CustomerPhone: phone,
			MessageType:   strings.ToLower(string(msgType)),
			Status:        status[phone],
			Channel:       logChannel,
			SentAt:        now,
		}
	}
	if err := s.logs.Upsert(ctx, logs); err != nil {
		s.logger.Error("Failed to write message logs", zap.String("campaign_id", contentID), zap.Error(err))
	}
}

func (s *Service) finishFailed(ctx context.Context, c *messaging.ChannelSMS, resp *SendResponse, reason string) (*SendResponse, error) {
	resp.Status = string(messaging.StatusFailed)
	if resp.DryRun {
		return resp, nil
	}
	s.logger.Warn("Campaign not sent", zap.String("campaign_id", c.ID.String()), zap.String("reason", reason))
	c.Fail()
	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	s.afterSend(ctx, c)
	return resp, nil
}

func (s *Service) afterSend(ctx context.Context, c *messaging.ChannelSMS) {
	if s.metrics != nil {
		s.metrics.RecordCampaignSend(ctx, string(c.Status), c.SuccessCount, c.FailCount)
	}
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, messaging.NewCampaignSentEvent(c, false)); err != nil {
		s.logger.Warn("Failed to publish campaign event", zap.Error(err))
	}
}

// Split divides a draft's recipients into n variant drafts A, B, C, ...
// The original draft keeps group A; the others are new drafts with the same content.
func (s *Service) Split(ctx context.Context, id uuid.UUID, req SplitRequest) ([]CampaignResponse, error) {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != messaging.StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "only draft campaigns can be split")
	}
	if req.Variants < 2 {
		return nil, shared.InvalidInput("variants must be at least 2")
	}
	groups, invalid := messaging.SplitRecipients(c.RecipientNumbers, req.Variants)
	if len(invalid) > 0 {
		s.logger.Warn("Invalid numbers dropped by split",
			zap.String("campaign_id", c.ID.String()),
			zap.Int("invalid", len(invalid)))
	}

	drafts := make([]*messaging.ChannelSMS, len(groups))
	for i, group := range groups {
		d := c
		if i > 0 {
			if d, err = messaging.NewChannelSMS(c.MessageText, c.MessageType, nil); err != nil {
				return nil, err
			}
			d.ImageURL = c.ImageURL
			d.ShortLink = c.ShortLink
			d.ScheduledAt = c.ScheduledAt
			d.Note = c.Note
		}
		d.RecipientNumbers = group
		d.Variant = messaging.VariantLabel(i)
		d.Touch()
		drafts[i] = d
	}

	out := make([]CampaignResponse, len(drafts))
	for i, d := range drafts {
		if err := s.campaigns.Save(ctx, d); err != nil {
			return nil, err
		}
		out[i] = ToCampaignResponse(d)
	}
	s.logger.Info("Campaign split",
		zap.String("campaign_id", c.ID.String()),
		zap.Int("variants", len(drafts)))
	return out, nil
}

// SendKakao sends a Kakao message to opted-in valid recipients
func (s *Service) SendKakao(ctx context.Context, req KakaoSendRequest) (*KakaoSendResponse, error) {
	if s.sms == nil {
		return nil, ErrGatewayDisabled
	}
	valid, invalid := messaging.ValidRecipients(req.Recipients)
	resp := &KakaoSendResponse{Invalid: len(invalid), GroupIDs: []string{}}
	if len(valid) == 0 {
		return nil, shared.InvalidInput("no valid recipients")
	}
	optedOut, err := s.customers.OptedOutPhones(ctx, valid)
	if err != nil {
		return nil, err
	}
	targets := messaging.Exclude(valid, optedOut)
	resp.OptedOut = len(valid) - len(targets)

	for _, chunk := range messaging.Chunk(targets, s.chunkSize) {
		msgs := make([]KakaoMessage, len(chunk))
		for i, to := range chunk {
			msgs[i] = KakaoMessage{
				To:         to,
				Text:       req.Text,
				TemplateID: req.TemplateID,
				Variables:  req.Variables,
				ButtonURL:  req.ButtonURL,
			}
		}
		resp.Attempted += len(chunk)
		res, err := s.sms.SendKakao(ctx, msgs)
		if err != nil {
			s.logger.Error("Kakao chunk failed", zap.Error(err))
			resp.FailCount += len(chunk)
			continue
		}
		if res.GroupID != "" {
			resp.GroupIDs = append(resp.GroupIDs, res.GroupID)
		}
		if len(res.Results) == 0 {
			resp.SuccessCount += len(chunk)
			continue
		}
		success, fail := res.Counts()
		resp.SuccessCount += success
		resp.FailCount += fail
	}
	s.logger.Info("Kakao message sent",
		zap.Int("attempted", resp.Attempted),
		zap.Int("success", resp.SuccessCount),
		zap.Int("fail", resp.FailCount))
	return resp, nil
}

// ExportRecipients writes the campaign's recipients as CSV:
// phone, formatted phone, variant and delivery status from the message logs.
func (s *Service) ExportRecipients(ctx context.Context, id uuid.UUID, w io.Writer) error {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return err
	}
	logs, err := s.logs.FindByContent(ctx, c.ID.String())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	logged := make(map[string]messaging.MessageLog, len(logs))
	for _, l := range logs {
		logged[l.CustomerPhone] = l
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"phone", "formatted_phone", "variant", "status", "sent_at"}); err != nil {
		return err
	}
	valid, invalid := messaging.ValidRecipients(c.RecipientNumbers)
	for _, phone := range valid {
		status, sentAt := "pending", ""
		if l, ok := logged[phone]; ok {
			status = l.Status
			sentAt = l.SentAt.Format(time.RFC3339)
		} else if c.Status != messaging.StatusDraft {
			status = "skipped"
		}
		if err := cw.Write([]string{phone, valueobject.FormatPhone(phone), c.Variant, status, sentAt}); err != nil {
			return err
		}
	}
	for _, raw := range invalid {
		if err := cw.Write([]string{raw, "", c.Variant, "invalid", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cleanNumbers(numbers []string) []string {
	out := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
