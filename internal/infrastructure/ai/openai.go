// Package ai wraps the language and image models used by the batch content processor.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	batchapp "github.com/masgolf/backend/internal/application/batch"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const (
	defaultModel      = "gpt-4.1-mini"
	defaultImageModel = "gpt-image-1"
	// cap what we send to the model
	maxPageRunes = 12000
)

// ErrMissingAPIKey is returned when no OpenAI key was configured
var ErrMissingAPIKey = errors.New("ai: openai api key is not set")

// ErrEmptyResponse is returned when a model answers with nothing usable
var ErrEmptyResponse = errors.New("ai: model returned an empty response")

const analyzeSystemPrompt = `You are the content editor of MASGOLF, a Korean golf driver brand.
Read the web page and answer with JSON only, no prose, using this schema:
{"summary": "3-4 sentence Korean summary", "keywords": ["up to 8 Korean keywords"],
 "category": "one of: golf-tips, equipment, event, customer-story, news",
 "image_prompt": "one English sentence describing a photorealistic blog illustration, no text in the image"}`

// OpenAIAnalyzer reads pages through the Responses API
type OpenAIAnalyzer struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewOpenAIAnalyzer creates an analyzer. Extra request options (base URL, HTTP
// client) are passed to the SDK.
func NewOpenAIAnalyzer(apiKey, model string, opts ...option.RequestOption) (*OpenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultModel
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIAnalyzer{client: &client, model: shared.ResponsesModel(model)}, nil
}

func buildPagePrompt(page *batchapp.Page) string {
	text := page.Text
	if r := []rune(text); len(r) > maxPageRunes {
		text = string(r[:maxPageRunes])
	}
	var b strings.Builder
	b.WriteString("URL: " + page.URL + "\n")
	b.WriteString("Title: " + page.Title + "\n")
	if page.Description != "" {
		b.WriteString("Description: " + page.Description + "\n")
	}
	b.WriteString("\n" + text)
	return b.String()
}

// Analyze asks the model for a JSON analysis of page
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, page *batchapp.Page) (*batchapp.Analysis, error) {
	resp, err := a.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: a.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(analyzeSystemPrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(buildPagePrompt(page), responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("call OpenAI: %w", err)
	}

	output := stripFence(strings.TrimSpace(resp.OutputText()))
	if output == "" {
		return nil, ErrEmptyResponse
	}
	var analysis batchapp.Analysis
	if err := json.Unmarshal([]byte(output), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if analysis.ImagePrompt == "" {
		analysis.ImagePrompt = "A golfer swinging a driver on a sunny Korean golf course, photorealistic"
	}
	return &analysis, nil
}

// stripFence removes a ```json fence some models wrap their answer in
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// OpenAIImageGenerator renders images with the Images API
type OpenAIImageGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIImageGenerator creates an image generator
func NewOpenAIImageGenerator(apiKey, model string, opts ...option.RequestOption) (*OpenAIImageGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultImageModel
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIImageGenerator{client: &client, model: model}, nil
}

// Generate renders one 1024x1024 image
func (g *OpenAIImageGenerator) Generate(ctx context.Context, prompt string) (*batchapp.GeneratedImage, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(g.model),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return nil, fmt.Errorf("call OpenAI images: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyResponse
	}
	img := resp.Data[0]
	if img.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return &batchapp.GeneratedImage{Data: data, ContentType: "image/png"}, nil
	}
	if img.URL != "" {
		return &batchapp.GeneratedImage{URL: img.URL}, nil
	}
	return nil, ErrEmptyResponse
}

var (
	_ batchapp.Analyzer       = (*OpenAIAnalyzer)(nil)
	_ batchapp.ImageGenerator = (*OpenAIImageGenerator)(nil)
)
