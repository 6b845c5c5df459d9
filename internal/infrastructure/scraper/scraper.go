// Package scraper fetches web pages for the batch content processor and
// extracts their title, text and images.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	batchapp "github.com/masgolf/backend/internal/application/batch"
)

const (
	defaultTimeout  = 30 * time.Second
	maxPageSize     = 5 * 1024 * 1024
	defaultAgent    = "Mozilla/5.0 (compatible; MASGOLF-ContentBot/1.0)"
	acceptHTMLTypes = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
)

// Scraper errors
var (
	ErrInvalidURL  = errors.New("scraper: url must be absolute http(s)")
	ErrFetchFailed = errors.New("scraper: fetch failed")
)

// Renderer returns the HTML of a page after scripts have run
type Renderer interface {
	RenderHTML(ctx context.Context, pageURL string) (string, error)
}

// Config configures a Scraper
type Config struct {
	Timeout   time.Duration
	UserAgent string
	// Renderer, when set, replaces the plain HTTP fetch
	Renderer Renderer
}

// Scraper implements batchapp.Scraper
type Scraper struct {
	httpClient *http.Client
	userAgent  string
	renderer   Renderer
	logger     *zap.Logger
}

// New creates a scraper
func New(cfg Config, logger *zap.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		renderer:   cfg.Renderer,
		logger:     logger,
	}
}

// Scrape fetches pageURL and extracts its content
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*batchapp.Page, error) {
	base, err := parseTarget(pageURL)
	if err != nil {
		return nil, err
	}

	var root *html.Node
	if s.renderer != nil {
		rendered, err := s.renderer.RenderHTML(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("%w: render: %v", ErrFetchFailed, err)
		}
		root, err = html.Parse(strings.NewReader(rendered))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
	} else {
		root, err = s.fetch(ctx, pageURL)
		if err != nil {
			return nil, err
		}
	}

	page := Extract(root, base)
	s.logger.Debug("Page scraped",
		zap.String("url", pageURL),
		zap.String("title", page.Title),
		zap.Int("text_len", len(page.Text)),
		zap.Int("images", len(page.Images)))
	return page, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", acceptHTMLTypes)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}

	// Korean sites still serve EUC-KR; decode to UTF-8 before parsing
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return root, nil
}

func parseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

var _ batchapp.Scraper = (*Scraper)(nil)
