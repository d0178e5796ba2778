package mock

import (
	"context"

	"github.com/fwojciec/causelist"
)

var (
	_ causelist.TextExtractor = (*TextExtractor)(nil)
	_ causelist.TextExtractor = (*FilteringTextExtractor)(nil)
	_ causelist.QueryFilter   = (*FilteringTextExtractor)(nil)
)

// TextExtractor is a mock implementation of causelist.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(ctx context.Context, path string) (causelist.PageText, error)
}

func (e *TextExtractor) ExtractText(ctx context.Context, path string) (causelist.PageText, error) {
	return e.ExtractTextFn(ctx, path)
}

// FilteringTextExtractor is a mock text extractor that also implements
// causelist.QueryFilter.
type FilteringTextExtractor struct {
	ExtractTextFn func(ctx context.Context, path string) (causelist.PageText, error)
	MayContainFn  func(ctx context.Context, path, query string) (bool, error)
}

func (e *FilteringTextExtractor) ExtractText(ctx context.Context, path string) (causelist.PageText, error) {
	return e.ExtractTextFn(ctx, path)
}

func (e *FilteringTextExtractor) MayContain(ctx context.Context, path, query string) (bool, error) {
	return e.MayContainFn(ctx, path, query)
}
