package causelist

import (
	"context"
	"sort"
	"strings"
)

// PageSeparator joins page texts into a single searchable text.
const PageSeparator = "\n"

// PageText is the plain text of a document, one entry per page in document
// order. Page numbers are 1-indexed by position.
type PageText []string

// Join concatenates the pages with PageSeparator.
func (p PageText) Join() string {
	return strings.Join(p, PageSeparator)
}

// PageAt returns the 1-indexed page that contains offset in the joined text.
// Offsets that fall on a separator belong to the preceding page. It returns 0
// when p is empty or offset is out of range.
func (p PageText) PageAt(offset int) int {
	if len(p) == 0 || offset < 0 {
		return 0
	}
	ends := p.pageEnds()
	if offset > ends[len(ends)-1] {
		return 0
	}
	return sort.SearchInts(ends, offset) + 1
}

// pageEnds returns the offset just past each page in the joined text.
func (p PageText) pageEnds() []int {
	ends := make([]int, len(p))
	pos := 0
	for i, page := range p {
		pos += len(page)
		ends[i] = pos
		pos += len(PageSeparator)
	}
	return ends
}

// TextExtractor reads the text layer of a stored document.
type TextExtractor interface {
	// ExtractText returns one entry per page. A page whose text cannot be
	// read contributes an empty string. An error means the document as a
	// whole could not be opened.
	ExtractText(ctx context.Context, path string) (PageText, error)
}

// QueryFilter can rule out documents without extracting their text.
type QueryFilter interface {
	// MayContain returns false only if the document at path certainly does
	// not contain query. Unknown documents return true.
	MayContain(ctx context.Context, path string, query string) (bool, error)
}
