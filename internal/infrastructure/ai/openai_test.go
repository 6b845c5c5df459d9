package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	batchapp "github.com/masgolf/backend/internal/application/batch"
)

func responseBody(text string) map[string]any {
	return map[string]any{
		"id":         "resp_1",
		"object":     "response",
		"created_at": 0,
		"model":      "gpt-4.1-mini",
		"status":     "completed",
		"output": []any{
			map[string]any{
				"type":   "message",
				"id":     "msg_1",
				"role":   "assistant",
				"status": "completed",
				"content": []any{
					map[string]any{"type": "output_text", "text": text, "annotations": []any{}},
				},
			},
		},
	}
}

func TestOpenAIAnalyzer_Analyze(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		answer := "```json\n{\"summary\":\"요약\",\"keywords\":[\"드라이버\",\"비거리\"],\"category\":\"equipment\",\"image_prompt\":\"a driver\"}\n```"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(responseBody(answer))
	}))
	defer server.Close()

	analyzer, err := NewOpenAIAnalyzer("sk-test", "", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	got, err := analyzer.Analyze(context.Background(), &batchapp.Page{
		URL:   "https://example.com/post",
		Title: "New driver",
		Text:  "body",
	})
	require.NoError(t, err)
	assert.Equal(t, "요약", got.Summary)
	assert.Equal(t, []string{"드라이버", "비거리"}, got.Keywords)
	assert.Equal(t, "equipment", got.Category)
	assert.Equal(t, "a driver", got.ImagePrompt)
	assert.Equal(t, defaultModel, gotBody["model"])
}

func TestOpenAIAnalyzer_DefaultsImagePrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(responseBody(`{"summary":"s","keywords":[]}`))
	}))
	defer server.Close()

	analyzer, err := NewOpenAIAnalyzer("sk-test", "gpt-test", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	got, err := analyzer.Analyze(context.Background(), &batchapp.Page{URL: "https://example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ImagePrompt)
}

func TestOpenAIAnalyzer_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenAIAnalyzer("", "")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("empty output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(responseBody("  "))
		}))
		defer server.Close()

		analyzer, err := NewOpenAIAnalyzer("sk-test", "", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
		require.NoError(t, err)
		_, err = analyzer.Analyze(context.Background(), &batchapp.Page{})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("not json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(responseBody("sorry, I cannot"))
		}))
		defer server.Close()

		analyzer, err := NewOpenAIAnalyzer("sk-test", "", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
		require.NoError(t, err)
		_, err = analyzer.Analyze(context.Background(), &batchapp.Page{})
		assert.ErrorContains(t, err, "unmarshal JSON")
	})
}

func TestBuildPagePrompt_Truncates(t *testing.T) {
	page := &batchapp.Page{URL: "u", Title: "t", Text: strings.Repeat("가", maxPageRunes+500)}
	prompt := buildPagePrompt(page)
	assert.Equal(t, maxPageRunes, strings.Count(prompt, "가"))
	assert.NotContains(t, prompt, "Description:")
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence(`{"a":1}`))
}

func TestOpenAIImageGenerator_Generate(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	t.Run("inline data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/images/generations"))
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, defaultImageModel, body["model"])
			assert.Equal(t, "1024x1024", body["size"])
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"created": 0,
				"data":    []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(png)}},
			})
		}))
		defer server.Close()

		gen, err := NewOpenAIImageGenerator("sk-test", "", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
		require.NoError(t, err)
		img, err := gen.Generate(context.Background(), "a golf course")
		require.NoError(t, err)
		assert.Equal(t, png, img.Data)
		assert.Equal(t, "image/png", img.ContentType)
	})

	t.Run("hosted url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"created": 0,
				"data":    []any{map[string]any{"url": "https://cdn.example.com/img.png"}},
			})
		}))
		defer server.Close()

		gen, err := NewOpenAIImageGenerator("sk-test", "dall-e-3", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
		require.NoError(t, err)
		img, err := gen.Generate(context.Background(), "a golf course")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/img.png", img.URL)
		assert.Nil(t, img.Data)
	})

	t.Run("no images", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"created": 0, "data": []any{}})
		}))
		defer server.Close()

		gen, err := NewOpenAIImageGenerator("sk-test", "", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
		require.NoError(t, err)
		_, err = gen.Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}
