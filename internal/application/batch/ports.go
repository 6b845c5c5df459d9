package batch

import (
	"context"

	"github.com/google/uuid"
)

// Page is the extracted content of a scraped URL
type Page struct {
	URL         string
	Title       string
	Description string
	Text        string
	Images      []string
}

// Analysis is the model's reading of a page
type Analysis struct {
	Summary     string   `json:"summary"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
	ImagePrompt string   `json:"image_prompt"`
}

// GeneratedImage is either hosted by the provider (URL) or returned inline (Data)
type GeneratedImage struct {
	URL         string
	Data        []byte
	ContentType string
}

// Scraper fetches a page and extracts its content
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
}

// Analyzer summarizes a page and proposes an illustration prompt
type Analyzer interface {
	Analyze(ctx context.Context, page *Page) (*Analysis, error)
}

// ImageGenerator renders an illustration for a prompt
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// ImageStore keeps generated images that come back inline
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// JobQueue hands job ids to the background worker pool
type JobQueue interface {
	Submit(jobID uuid.UUID) error
}
