package ai

import (
	"context"
	"fmt"

	batchapp "github.com/masgolf/backend/internal/application/batch"
	"github.com/masgolf/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Image providers
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderQueue  = "queue"
)

// NewImageGenerator picks the image backend named by cfg.ImageProvider
func NewImageGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (batchapp.ImageGenerator, error) {
	switch cfg.ImageProvider {
	case "", ProviderOpenAI:
		return NewOpenAIImageGenerator(cfg.OpenAIKey, cfg.OpenAIImageModel)
	case ProviderGoogle:
		return NewGoogleImageGenerator(ctx, cfg.GoogleAPIKey, cfg.GoogleImageModel, "")
	case ProviderQueue:
		return NewQueueImageGenerator(QueueConfig{
			URL:          cfg.QueueURL,
			Key:          cfg.QueueKey,
			PollInterval: cfg.PollInterval,
			PollAttempts: cfg.PollAttempts,
		}, logger)
	default:
		return nil, fmt.Errorf("ai: unknown image provider %q", cfg.ImageProvider)
	}
}
