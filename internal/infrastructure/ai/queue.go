package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	batchapp "github.com/masgolf/backend/internal/application/batch"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultPollAttempts = 30
	maxQueueResponse    = 1 << 20
)

// Queue errors
var (
	ErrMissingQueueURL = errors.New("ai: image queue url is not set")
	ErrQueueTimeout    = errors.New("ai: image generation did not finish in time")
	ErrQueueFailed     = errors.New("ai: image generation failed")
)

// QueueConfig configures an asynchronous image queue
type QueueConfig struct {
	URL          string
	Key          string
	PollInterval time.Duration
	PollAttempts int
}

// Validate fills defaults and checks required fields
func (c *QueueConfig) Validate() error {
	if c.URL == "" {
		return ErrMissingQueueURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = defaultPollAttempts
	}
	return nil
}

type queueSubmitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type queueStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type queueResultResponse struct {
	Images []struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	} `json:"images"`
}

// QueueImageGenerator submits prompts to an async queue and polls for the result
type QueueImageGenerator struct {
	config     QueueConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewQueueImageGenerator creates a queue-backed generator
func NewQueueImageGenerator(cfg QueueConfig, logger *zap.Logger) (*QueueImageGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueImageGenerator{
		config:     cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Generate submits prompt and waits until the queue reports completion
func (g *QueueImageGenerator) Generate(ctx context.Context, prompt string) (*batchapp.GeneratedImage, error) {
	var submitted queueSubmitResponse
	if err := g.do(ctx, http.MethodPost, g.config.URL, map[string]any{"prompt": prompt, "num_images": 1}, &submitted); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if submitted.StatusURL == "" || submitted.ResponseURL == "" {
		return nil, fmt.Errorf("%w: queue did not return polling urls", ErrQueueFailed)
	}
	g.logger.Debug("Image request queued", zap.String("request_id", submitted.RequestID))

	ticker := time.NewTicker(g.config.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= g.config.PollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		var status queueStatusResponse
		if err := g.do(ctx, http.MethodGet, submitted.StatusURL, nil, &status); err != nil {
			g.logger.Warn("Image queue status check failed",
				zap.String("request_id", submitted.RequestID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		switch strings.ToUpper(status.Status) {
		case "COMPLETED":
			return g.fetchResult(ctx, submitted.ResponseURL)
		case "FAILED", "ERROR":
			return nil, fmt.Errorf("%w: %s", ErrQueueFailed, status.Error)
		}
	}
	return nil, ErrQueueTimeout
}

func (g *QueueImageGenerator) fetchResult(ctx context.Context, url string) (*batchapp.GeneratedImage, error) {
	var result queueResultResponse
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	if len(result.Images) == 0 || result.Images[0].URL == "" {
		return nil, ErrEmptyResponse
	}
	return &batchapp.GeneratedImage{URL: result.Images[0].URL, ContentType: result.Images[0].ContentType}, nil
}

func (g *QueueImageGenerator) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.config.Key != "" {
		req.Header.Set("Authorization", "Key "+g.config.Key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxQueueResponse))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", ErrQueueFailed, resp.StatusCode)
	}
	return json.Unmarshal(data, out)
}

var _ batchapp.ImageGenerator = (*QueueImageGenerator)(nil)
