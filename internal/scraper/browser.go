package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// navigationStatusJS reads the HTTP status of the main document (0 when the
// browser does not expose it).
const navigationStatusJS = `() => {
	const nav = performance.getEntriesByType("navigation")[0];
	return nav && nav.responseStatus ? nav.responseStatus : 0;
}`

type BrowserOptions struct {
	Timeout     time.Duration
	UserAgent   string
	Headless    bool
	BrowserPath string
}

// BrowserLoader renders pages in a headless Chromium. The browser is launched
// on first use and shared by all loads.
type BrowserLoader struct {
	opts    BrowserOptions
	logger  *logger.Logger
	mu      sync.Mutex
	browser *rod.Browser
}

func NewBrowserLoader(opts BrowserOptions, log *logger.Logger) *BrowserLoader {
	return &BrowserLoader{opts: opts, logger: log}
}

func (l *BrowserLoader) connect() (*rod.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser != nil {
		return l.browser, nil
	}

	launch := launcher.New().
		Headless(l.opts.Headless).
		Set("user-agent", l.opts.UserAgent).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")

	if l.opts.BrowserPath != "" {
		launch = launch.Bin(l.opts.BrowserPath)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	l.logger.Info("Browser launched", "headless", l.opts.Headless)
	l.browser = browser
	return browser, nil
}

func (l *BrowserLoader) Load(ctx context.Context, url string) ([]byte, error) {
	browser, err := l.connect()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			l.logger.Debug("Failed to close page", "error", err)
		}
	}()

	if _, err := page.SetExtraHeaders([]string{"Accept-Language", "en-US,en;q=0.9"}); err != nil {
		return nil, fmt.Errorf("failed to set headers: %w", err)
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load failed for %s: %w", url, err)
	}

	if res, err := page.Eval(navigationStatusJS); err == nil {
		if status := res.Value.Int(); status != 0 && (status < 200 || status > 299) {
			return nil, fmt.Errorf("GET %s: unexpected status %d", url, status)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	return []byte(html), nil
}

// Close shuts the browser down if it was launched.
func (l *BrowserLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser == nil {
		return nil
	}

	err := l.browser.Close()
	l.browser = nil
	return err
}
