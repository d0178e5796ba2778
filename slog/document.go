package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/causelist"
)

// Ensure LoggingDocumentFetcher implements causelist.DocumentFetcher.
var _ causelist.DocumentFetcher = (*LoggingDocumentFetcher)(nil)

// LoggingDocumentFetcher wraps a DocumentFetcher with logging.
type LoggingDocumentFetcher struct {
	next   causelist.DocumentFetcher
	logger *slog.Logger
}

// NewLoggingDocumentFetcher creates a new LoggingDocumentFetcher.
func NewLoggingDocumentFetcher(next causelist.DocumentFetcher, logger *slog.Logger) *LoggingDocumentFetcher {
	return &LoggingDocumentFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs where the document went.
func (f *LoggingDocumentFetcher) Fetch(ctx context.Context, ref causelist.DocumentReference) (doc *causelist.StoredDocument) {
	defer func(begin time.Time) {
		f.logger.Info("fetch document",
			"url", ref.Location,
			"label", ref.Label,
			"path", doc.Path,
			"bytes", doc.Bytes,
			"duration", time.Since(begin),
			"err", doc.Err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, ref)
}

// Ensure LoggingTextExtractor implements causelist.TextExtractor and causelist.QueryFilter.
var (
	_ causelist.TextExtractor = (*LoggingTextExtractor)(nil)
	_ causelist.QueryFilter   = (*LoggingTextExtractor)(nil)
)

// LoggingTextExtractor wraps a TextExtractor with logging. It forwards
// prefilter queries when the wrapped extractor supports them.
type LoggingTextExtractor struct {
	next   causelist.TextExtractor
	logger *slog.Logger
}

// NewLoggingTextExtractor creates a new LoggingTextExtractor.
func NewLoggingTextExtractor(next causelist.TextExtractor, logger *slog.Logger) *LoggingTextExtractor {
	return &LoggingTextExtractor{next: next, logger: logger}
}

// ExtractText delegates to the wrapped extractor and logs the page count.
func (e *LoggingTextExtractor) ExtractText(ctx context.Context, path string) (pages causelist.PageText, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract text",
			"path", path,
			"pages", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractText(ctx, path)
}

// MayContain delegates to the wrapped extractor when it is a
// causelist.QueryFilter and otherwise reports true.
func (e *LoggingTextExtractor) MayContain(ctx context.Context, path, query string) (ok bool, err error) {
	filter, isFilter := e.next.(causelist.QueryFilter)
	if !isFilter {
		return true, nil
	}
	defer func() {
		e.logger.Debug("prefilter", "path", path, "may_contain", ok, "err", err)
	}()
	return filter.MayContain(ctx, path, query)
}
