// Package rod renders JavaScript-driven cause-list pages with a Chrome
// browser driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/causelist"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRenderDelay is how long to wait after page load for scripts to
// populate the page when no WaitFunc is set.
const DefaultRenderDelay = 4 * time.Second

// Ensure Renderer implements causelist.Renderer at compile time.
var _ causelist.Renderer = (*Renderer)(nil)

// WaitFunc blocks until the page is ready to be captured, for example until
// an operator has solved a CAPTCHA and pressed ENTER. It must return when
// ctx is done.
type WaitFunc func(ctx context.Context) error

// Renderer captures rendered HTML and session cookies using Chrome.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	headless    bool
	userAgent   string
	renderDelay time.Duration
	wait        WaitFunc
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeadless controls whether the browser window is hidden.
// Defaults to true. Interactive sessions need a visible window.
func WithHeadless(headless bool) Option {
	return func(r *Renderer) {
		r.headless = headless
	}
}

// WithUserAgent overrides the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// WithRenderDelay sets the pause after page load.
// Defaults to DefaultRenderDelay (4s) if not specified.
func WithRenderDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.renderDelay = d
	}
}

// WithWait replaces the render delay with fn, which is called after the
// page has loaded and before its HTML is captured.
func WithWait(fn WaitFunc) Option {
	return func(r *Renderer) {
		r.wait = fn
	}
}

// NewRenderer launches Chrome and returns a Renderer.
// Close must be called when the Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		headless:    true,
		renderDelay: DefaultRenderDelay,
	}
	for _, opt := range opts {
		opt(r)
	}

	l := launcher.New().
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(r.headless)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	r.browser = browser
	r.launcher = l
	return r, nil
}

// Render navigates to url, waits for the page to be ready and returns its
// HTML, final URL and cookies.
func (r *Renderer) Render(ctx context.Context, url string) (*causelist.Snapshot, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Context(ctx)

	if r.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.userAgent}); err != nil {
			return nil, fmt.Errorf("setting user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	if err := r.waitReady(ctx); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	info, err := page.Info()
	if err != nil {
		return nil, err
	}

	cookies, err := page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("reading cookies: %w", err)
	}

	return &causelist.Snapshot{
		HTML:    html,
		URL:     info.URL,
		Cookies: HTTPCookies(cookies),
	}, nil
}

func (r *Renderer) waitReady(ctx context.Context) error {
	if r.wait != nil {
		return r.wait(ctx)
	}
	if r.renderDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.renderDelay):
		return nil
	}
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	err := r.browser.Close()
	r.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (r *Renderer) LauncherPID() int {
	return r.launcher.PID()
}

// HTTPCookies converts browser cookies for use with net/http.
// Session cookies keep a zero Expires.
func HTTPCookies(cookies []*proto.NetworkCookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		ck := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if !c.Session && c.Expires > 0 {
			ck.Expires = c.Expires.Time()
		}
		out = append(out, ck)
	}
	return out
}
