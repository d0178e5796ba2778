// Package slog provides logging decorators for the causelist collaborators.
package slog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/causelist"
)

// Ensure LoggingRenderer implements causelist.Renderer.
var _ causelist.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   causelist.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next causelist.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the snapshot size.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (snap *causelist.Snapshot, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if snap != nil {
			attrs = append(attrs, "final_url", snap.URL, "bytes", len(snap.HTML), "cookies", len(snap.Cookies))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		r.logger.Info("render", attrs...)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

// Ensure LoggingTransport implements causelist.Transport.
var _ causelist.Transport = (*LoggingTransport)(nil)

// LoggingTransport wraps a Transport with logging. The transfer itself is
// logged when the returned body is closed.
type LoggingTransport struct {
	next   causelist.Transport
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport(next causelist.Transport, logger *slog.Logger) *LoggingTransport {
	return &LoggingTransport{next: next, logger: logger}
}

// Open delegates to the wrapped transport.
func (t *LoggingTransport) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	begin := time.Now()
	body, err := t.next.Open(ctx, url)
	if err != nil {
		t.logger.Info("open", "url", url, "duration", time.Since(begin), "err", err)
		return nil, err
	}
	return &loggingBody{ReadCloser: body, logger: t.logger, url: url, begin: begin}, nil
}

// SetCookies delegates to the wrapped transport.
func (t *LoggingTransport) SetCookies(cookies []*http.Cookie) (err error) {
	defer func() {
		t.logger.Debug("set cookies", "count", len(cookies), "err", err)
	}()
	return t.next.SetCookies(cookies)
}

// loggingBody counts bytes read and logs the transfer on Close.
type loggingBody struct {
	io.ReadCloser
	logger  *slog.Logger
	url     string
	begin   time.Time
	n       int64
	readErr error
}

func (b *loggingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n += int64(n)
	if err != nil && err != io.EOF {
		b.readErr = err
	}
	return n, err
}

func (b *loggingBody) Close() error {
	err := b.ReadCloser.Close()
	b.logger.Info("transfer",
		"url", b.url,
		"bytes", b.n,
		"duration", time.Since(b.begin),
		"err", b.readErr,
	)
	return err
}
