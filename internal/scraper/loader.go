package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// PageLoader retrieves a page body. Implementations must bound every call by
// their configured timeout and report non-2xx responses as errors.
type PageLoader interface {
	Load(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// NewLoader builds the loader selected by cfg.FetchMode.
func NewLoader(cfg *config.Config, log *logger.Logger) (PageLoader, error) {
	switch cfg.FetchMode {
	case "http", "":
		return NewHTTPLoader(cfg.FetchTimeout, cfg.UserAgent), nil
	case "browser":
		return NewBrowserLoader(BrowserOptions{
			Timeout:     cfg.FetchTimeout,
			UserAgent:   cfg.UserAgent,
			Headless:    cfg.HeadlessMode,
			BrowserPath: cfg.BrowserPath,
		}, log), nil
	default:
		return nil, fmt.Errorf("unsupported fetch mode: %s", cfg.FetchMode)
	}
}

// HTTPLoader fetches pages with plain GET requests.
type HTTPLoader struct {
	client  *resty.Client
	timeout time.Duration
}

func NewHTTPLoader(timeout time.Duration, userAgent string) *HTTPLoader {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &HTTPLoader{client: client, timeout: timeout}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode())
	}

	return resp.Body(), nil
}

func (l *HTTPLoader) Close() error {
	return nil
}
