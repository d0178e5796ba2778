// Package pdf extracts the text layer of PDF documents.
package pdf

import (
	"context"
	"fmt"

	"github.com/fwojciec/causelist"
	pdflib "github.com/ledongthuc/pdf"
)

// Ensure Extractor implements causelist.TextExtractor at compile time.
var _ causelist.TextExtractor = (*Extractor)(nil)

// Extractor reads per-page plain text with github.com/ledongthuc/pdf.
// A page that cannot be read contributes an empty string.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText opens path and returns the text of every page in order.
// An error is returned only when the document as a whole cannot be opened.
func (e *Extractor) ExtractText(ctx context.Context, path string) (pages causelist.PageText, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("open %s: %v", path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n := reader.NumPage()
	pages = make(causelist.PageText, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, pageText(reader, i))
	}
	return pages, nil
}

// pageText returns the plain text of page i, or "" if the page is unreadable.
func pageText(reader *pdflib.Reader, i int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
