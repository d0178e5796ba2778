package mock

import "github.com/fwojciec/causelist"

var (
	_ causelist.LinkExtractor = (*LinkExtractor)(nil)
	_ causelist.RowFinder     = (*RowFinder)(nil)
)

// LinkExtractor is a mock implementation of causelist.LinkExtractor.
type LinkExtractor struct {
	ExtractReferencesFn func(html, baseURL string) ([]causelist.DocumentReference, error)
}

func (e *LinkExtractor) ExtractReferences(html, baseURL string) ([]causelist.DocumentReference, error) {
	return e.ExtractReferencesFn(html, baseURL)
}

// RowFinder is a mock implementation of causelist.RowFinder.
type RowFinder struct {
	FindRowsFn func(html, query string) ([]causelist.RowHit, error)
}

func (f *RowFinder) FindRows(html, query string) ([]causelist.RowHit, error) {
	return f.FindRowsFn(html, query)
}
