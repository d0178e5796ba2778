// Package http provides the HTTP transport for causelist: streaming
// document downloads with an optional browser-derived cookie session, and
// snapshots of static cause-list pages that don't require JavaScript.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/causelist"
	"golang.org/x/net/publicsuffix"
)

// Defaults used when no option overrides them.
const (
	DefaultPageTimeout     = 30 * time.Second
	DefaultDownloadTimeout = 60 * time.Second
)

// Ensure Client implements the causelist interfaces at compile time.
var (
	_ causelist.Transport = (*Client)(nil)
	_ causelist.Renderer  = (*Client)(nil)
)

// StatusError is returned for responses with a non-success status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Retryable reports whether the server may answer differently later:
// 5xx responses, 408 and 429. Other statuses, like 404 or 403, are final.
func (e *StatusError) Retryable() bool {
	switch {
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// Client fetches pages and documents over HTTP.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	client          *http.Client
	jar             *cookiejar.Jar
	userAgent       string
	pageTimeout     time.Duration
	downloadTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithPageTimeout sets the timeout for fetching a page snapshot.
// Defaults to DefaultPageTimeout (30s) if not specified.
func WithPageTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.pageTimeout = d
	}
}

// WithDownloadTimeout sets the timeout for a whole document download,
// including reading the body.
// Defaults to DefaultDownloadTimeout (60s) if not specified.
func WithDownloadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.downloadTimeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithConfig applies the timeouts and User-Agent of cfg.
func WithConfig(cfg causelist.Config) Option {
	return func(c *Client) {
		c.userAgent = cfg.UserAgent
		c.pageTimeout = cfg.PageTimeout
		c.downloadTimeout = cfg.DownloadTimeout
	}
}

// NewClient creates a new Client with an empty cookie session.
func NewClient(opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		jar:             jar,
		userAgent:       causelist.DefaultUserAgent,
		pageTimeout:     DefaultPageTimeout,
		downloadTimeout: DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{Jar: jar}

	return c, nil
}

// Render fetches the page at rawURL without executing JavaScript.
// The snapshot URL is the final URL after redirects.
func (c *Client) Render(ctx context.Context, rawURL string) (*causelist.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pageTimeout)
	defer cancel()

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	final := resp.Request.URL
	return &causelist.Snapshot{
		HTML:    string(body),
		URL:     final.String(),
		Cookies: c.jar.Cookies(final),
	}, nil
}

// Open starts downloading rawURL and returns the response body.
// The download timeout keeps running until the body is closed.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		cancel()
		return nil, err
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// SetCookies adds browser cookies to the session. Each cookie is scoped
// to its Domain and Path.
func (c *Client) SetCookies(cookies []*http.Cookie) error {
	for _, ck := range cookies {
		domain := strings.TrimPrefix(ck.Domain, ".")
		if domain == "" {
			return causelist.Errorf(causelist.EINVALID, "cookie %q has no domain", ck.Name)
		}

		scheme := "http"
		if ck.Secure {
			scheme = "https"
		}
		path := ck.Path
		if path == "" {
			path = "/"
		}

		c.jar.SetCookies(&url.URL{Scheme: scheme, Host: domain, Path: path}, []*http.Cookie{ck})
	}
	return nil
}

// Close releases resources. For the HTTP client this is a no-op.
func (c *Client) Close() error {
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// cancelOnClose releases a request context when its body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
