// Package solapi is the SMS/LMS/MMS and Kakao gateway backed by the Solapi REST API.
package solapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	messagingapp "github.com/masgolf/backend/internal/application/messaging"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// maxImageSize is the MMS image limit enforced by carriers
const maxImageSize = 200 * 1024

// Errors returned by the client
var (
	ErrRequestFailed = errors.New("solapi: request failed")
	ErrTooMany       = errors.New("solapi: too many messages in one request")
	ErrImageTooLarge = errors.New("solapi: MMS image exceeds 200KB")
	ErrNoKakaoPFID   = errors.New("solapi: kakao channel pfId is not configured")
)

// Client talks to the Solapi REST API
type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a client with the given configuration
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// SendMany sends one chunk of messages
func (c *Client) SendMany(ctx context.Context, msgs []messagingapp.OutboundMessage) (*messagingapp.SendResult, error) {
	if len(msgs) > messaging.MaxChunk {
		return nil, fmt.Errorf("%w: %d", ErrTooMany, len(msgs))
	}
	req := sendManyRequest{Messages: make([]message, len(msgs))}
	for i, m := range msgs {
		req.Messages[i] = message{
			To:      valueobject.DigitsOnly(m.To),
			From:    valueobject.DigitsOnly(c.config.Sender),
			Text:    m.Text,
			Type:    string(messaging.ResolveType(m.Type, m.ImageID != "")),
			Subject: m.Subject,
			ImageID: m.ImageID,
		}
		if req.Messages[i].Type != string(messaging.TypeMMS) {
			req.Messages[i].ImageID = ""
		}
	}
	return c.sendMany(ctx, req)
}

// SendKakao sends friend-talk (no template) or alimtalk messages. The SMS
// fallback is always disabled.
func (c *Client) SendKakao(ctx context.Context, msgs []messagingapp.KakaoMessage) (*messagingapp.SendResult, error) {
	if c.config.PFID == "" {
		return nil, ErrNoKakaoPFID
	}
	if len(msgs) > messaging.MaxChunk {
		return nil, fmt.Errorf("%w: %d", ErrTooMany, len(msgs))
	}
	req := sendManyRequest{Messages: make([]message, len(msgs))}
	for i, m := range msgs {
		opts := &kakaoOptions{
			PFID:       c.config.PFID,
			TemplateID: m.TemplateID,
			Variables:  m.Variables,
			DisableSMS: true,
		}
		kind := "CTA"
		if m.TemplateID != "" {
			kind = "ATA"
		}
		if m.ButtonURL != "" && m.TemplateID == "" {
			opts.Buttons = []kakaoButton{{ButtonName: "자세히 보기", ButtonType: "WL", LinkMo: m.ButtonURL, LinkPc: m.ButtonURL}}
		}
		req.Messages[i] = message{
			To:           valueobject.DigitsOnly(m.To),
			From:         valueobject.DigitsOnly(c.config.Sender),
			Text:         m.Text,
			Type:         kind,
			KakaoOptions: opts,
		}
	}
	return c.sendMany(ctx, req)
}

func (c *Client) sendMany(ctx context.Context, req sendManyRequest) (*messagingapp.SendResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/messages/v4/send-many", req)
	if err != nil {
		return nil, err
	}
	var resp sendManyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("solapi: failed to decode response: %w", err)
	}

	out := &messagingapp.SendResult{GroupID: resp.GroupID}
	if len(resp.Results) == 0 {
		// accepted as a group without per-message results
		for _, m := range req.Messages {
			out.Results = append(out.Results, messagingapp.RecipientResult{To: m.To, Success: true, Code: statusCodeOK})
		}
		return out, nil
	}
	for _, r := range resp.Results {
		msg := r.StatusMessage
		if msg == "" {
			msg = r.ErrorMessage
		}
		out.Results = append(out.Results, messagingapp.RecipientResult{
			To:      r.To,
			Success: r.ok(),
			Code:    r.StatusCode,
			Message: msg,
		})
	}
	return out, nil
}

// UploadImage downloads imageURL and registers it as an MMS file
func (c *Client) UploadImage(ctx context.Context, imageURL string) (string, error) {
	data, err := c.fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/storage/v1/files", uploadRequest{
		File: base64.StdEncoding.EncodeToString(data),
		Type: "MMS",
		Name: path.Base(strings.SplitN(imageURL, "?", 2)[0]),
	})
	if err != nil {
		return "", err
	}
	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("solapi: failed to decode upload response: %w", err)
	}
	if resp.FileID == "" {
		return "", fmt.Errorf("%w: upload returned no fileId", ErrRequestFailed)
	}
	return resp.FileID, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("solapi: invalid image url: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solapi: image download returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
}

// doRequest performs a signed JSON request, waiting for the rate limiter first
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.config.BaseURL, "/")+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to create request: %w", err)
	}
	auth, err := c.config.AuthorizationHeader(c.now())
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to sign request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("solapi: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		c.logger.Warn("Solapi request rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("error_code", apiErr.ErrorCode),
		)
		return nil, fmt.Errorf("%w: HTTP %d %s %s", ErrRequestFailed, resp.StatusCode, apiErr.ErrorCode, apiErr.ErrorMessage)
	}
	return body, nil
}

var _ messagingapp.SMSGateway = (*Client)(nil)
