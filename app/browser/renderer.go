package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/fdubois/autodeal/app/cfg"
	"github.com/fdubois/autodeal/app/listing"
)

// Renderer drives a headless Chrome instance to load listing pages whose
// content is built client side. Each Render call runs in its own browser
// context, so calls are independent and safe to run concurrently.
type Renderer struct {
	userAgent      string
	headful        bool
	navTimeout     time.Duration
	consentTimeout time.Duration
	renderDelay    time.Duration
}

// NewRenderer creates a renderer from the loaded configuration
func NewRenderer() *Renderer {
	c := cfg.Get()
	return &Renderer{
		userAgent:      c.UserAgent,
		headful:        c.Headful,
		navTimeout:     time.Duration(c.NavigationTimeout) * time.Second,
		consentTimeout: time.Duration(c.ConsentTimeout) * time.Second,
		renderDelay:    time.Duration(c.RenderDelay) * time.Second,
	}
}

func (r *Renderer) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !r.headful),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent(r.userAgent),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Render loads the given URL, dismisses the cookie consent dialog when one
// shows up and returns a snapshot of the fully rendered page. The final URL
// is taken from the browser, so redirects are reflected in the snapshot.
func (r *Renderer) Render(ctx context.Context, url string) (*listing.Page, error) {
	browserCtx, cancel := r.newContext(ctx)
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.navTimeout)
	defer cancelTimeout()

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	r.acceptConsent(browserCtx, url)

	var html, location string
	err = chromedp.Run(browserCtx,
		chromedp.Sleep(r.renderDelay), // give JS time to render
		chromedp.OuterHTML("html", &html),
		chromedp.Location(&location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture rendered page: %w", err)
	}

	return listing.NewPage(html, location)
}

// acceptConsent clicks the cookie banner if it appears within the consent
// timeout. A missing banner is the normal case and is not an error.
func (r *Renderer) acceptConsent(ctx context.Context, url string) {
	consentCtx, cancel := context.WithTimeout(ctx, r.consentTimeout)
	defer cancel()

	err := chromedp.Run(consentCtx,
		chromedp.WaitVisible(`button[data-testid="consent-accept-btn"]`),
		chromedp.Click(`button[data-testid="consent-accept-btn"]`),
	)
	if err != nil {
		slog.Debug("No consent dialog found", "url", url)
	}
}
