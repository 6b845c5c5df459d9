// Package notify delivers operator notifications to Slack.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Slack allows at most 10 fields per section block
const maxFieldsPerSection = 10

// ErrWebhookRejected is returned when Slack answers with a non-2xx status
var ErrWebhookRejected = errors.New("slack: webhook rejected the message")

// SlackNotifier posts block messages to an incoming webhook
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSlackNotifier creates a notifier. With an empty webhook URL every Notify is a no-op.
func NewSlackNotifier(cfg config.SlackConfig, logger *zap.Logger) *SlackNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SlackNotifier{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Enabled reports whether a webhook is configured
func (s *SlackNotifier) Enabled() bool {
	return s.webhookURL != ""
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

// buildMessage renders n as a header block, an optional text section and field sections
func buildMessage(n shared.Notification) slackMessage {
	msg := slackMessage{Text: n.Title}
	msg.Blocks = append(msg.Blocks, slackBlock{
		Type: "header",
		Text: &slackText{Type: "plain_text", Text: n.Title},
	})
	if n.Text != "" {
		msg.Blocks = append(msg.Blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: n.Text},
		})
	}
	for start := 0; start < len(n.Fields); start += maxFieldsPerSection {
		end := min(start+maxFieldsPerSection, len(n.Fields))
		block := slackBlock{Type: "section"}
		for _, f := range n.Fields[start:end] {
			block.Fields = append(block.Fields, slackText{Type: "mrkdwn", Text: "*" + f.Label + ":*\n" + f.Value})
		}
		msg.Blocks = append(msg.Blocks, block)
	}
	return msg
}

// Notify posts n to the webhook
func (s *SlackNotifier) Notify(ctx context.Context, n shared.Notification) error {
	if !s.Enabled() {
		s.logger.Debug("Slack webhook not configured, skipping notification", zap.String("title", n.Title))
		return nil
	}

	body, err := json.Marshal(buildMessage(n))
	if err != nil {
		return fmt.Errorf("slack: failed to encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrWebhookRejected, resp.StatusCode)
	}
	return nil
}

var _ shared.Notifier = (*SlackNotifier)(nil)
