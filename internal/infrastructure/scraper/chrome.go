package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeConfig configures the headless renderer
type ChromeConfig struct {
	Timeout time.Duration
	// RemoteURL points at a running Chrome DevTools endpoint. Empty launches a local browser.
	RemoteURL string
	NoSandbox bool
	// WaitSelector is awaited before the DOM is captured
	WaitSelector string
}

// ChromeRenderer renders pages through Chrome DevTools Protocol
type ChromeRenderer struct {
	config      ChromeConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRenderer creates the browser allocator. Close releases it.
func NewChromeRenderer(cfg ChromeConfig, logger *zap.Logger) *ChromeRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.WaitSelector == "" {
		cfg.WaitSelector = "body"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ChromeRenderer{config: cfg, logger: logger}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.UserAgent(defaultAgent),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// RenderHTML navigates to pageURL and returns the rendered document
func (r *ChromeRenderer) RenderHTML(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// stop the tab when the caller's deadline passes
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var out string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(r.config.WaitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &out, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("render %s: %w", pageURL, ctx.Err())
		}
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return out, nil
}

// Close shuts the browser down
func (r *ChromeRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

var _ Renderer = (*ChromeRenderer)(nil)
