package ai

import (
	"context"
	"errors"
	"fmt"

	batchapp "github.com/masgolf/backend/internal/application/batch"
	"google.golang.org/genai"
)

const defaultGoogleImageModel = "imagen-4.0-generate-001"

// ErrMissingGoogleKey is returned when no Google API key was configured
var ErrMissingGoogleKey = errors.New("ai: google api key is not set")

// GoogleImageGenerator renders images with a Google image model
type GoogleImageGenerator struct {
	client *genai.Client
	model  string
}

// NewGoogleImageGenerator creates the generator. baseURL overrides the API endpoint when set.
func NewGoogleImageGenerator(ctx context.Context, apiKey, model, baseURL string) (*GoogleImageGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingGoogleKey
	}
	if model == "" {
		model = defaultGoogleImageModel
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GoogleImageGenerator{client: client, model: model}, nil
}

// Generate renders one image and returns its bytes
func (g *GoogleImageGenerator) Generate(ctx context.Context, prompt string) (*batchapp.GeneratedImage, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("GenAI image generation failed: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, ErrEmptyResponse
	}
	img := resp.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 {
		return nil, ErrEmptyResponse
	}
	contentType := img.MIMEType
	if contentType == "" {
		contentType = "image/png"
	}
	return &batchapp.GeneratedImage{Data: img.ImageBytes, ContentType: contentType}, nil
}

var _ batchapp.ImageGenerator = (*GoogleImageGenerator)(nil)
