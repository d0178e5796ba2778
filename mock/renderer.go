package mock

import (
	"context"
	"io"
	"net/http"

	"github.com/fwojciec/causelist"
)

var (
	_ causelist.Renderer  = (*Renderer)(nil)
	_ causelist.Transport = (*Transport)(nil)
)

// Renderer is a mock implementation of causelist.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*causelist.Snapshot, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (*causelist.Snapshot, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// Transport is a mock implementation of causelist.Transport.
type Transport struct {
	OpenFn       func(ctx context.Context, url string) (io.ReadCloser, error)
	SetCookiesFn func(cookies []*http.Cookie) error
}

func (t *Transport) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	return t.OpenFn(ctx, url)
}

func (t *Transport) SetCookies(cookies []*http.Cookie) error {
	return t.SetCookiesFn(cookies)
}
