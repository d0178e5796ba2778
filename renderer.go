package causelist

import (
	"context"
	"io"
	"net/http"
)

// Snapshot is the HTML of a page as the browser or HTTP client saw it.
type Snapshot struct {
	// HTML is the page source after any JavaScript rendering.
	HTML string

	// URL is the final location after redirects and navigation.
	// Relative references in HTML resolve against it.
	URL string

	// Cookies holds the session cookies of the page, if any. They are
	// transferred to the Transport so that documents behind the same
	// session can be downloaded.
	Cookies []*http.Cookie
}

// Renderer produces a snapshot of a cause-list page.
// Implementations may drive a browser and wait for a human to solve a
// CAPTCHA, so Render can block for a long time.
type Renderer interface {
	Render(ctx context.Context, url string) (*Snapshot, error)

	// Close releases browser resources.
	Close() error
}

// Transport retrieves raw document bytes.
type Transport interface {
	// Open starts a GET request and returns the response body as a stream.
	// Non-success statuses, timeouts and connection failures are errors.
	// The caller must close the returned body.
	Open(ctx context.Context, url string) (io.ReadCloser, error)

	// SetCookies adds session cookies to be sent with subsequent requests.
	SetCookies(cookies []*http.Cookie) error
}
