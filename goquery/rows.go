package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/causelist"
	"golang.org/x/net/html"
)

// Ensure RowFinder implements causelist.RowFinder at compile time.
var _ causelist.RowFinder = (*RowFinder)(nil)

// rowCourtIndicators mark a table cell that names a court.
var rowCourtIndicators = []string{"court", "judge", "bench"}

// RowFinder searches cause-list tables rendered directly in HTML.
type RowFinder struct{}

// NewRowFinder creates a new RowFinder.
func NewRowFinder() *RowFinder {
	return &RowFinder{}
}

// FindRows returns every table row whose text contains query, ignoring case.
// The serial is the first cell made only of digits; the court is the last
// cell that mentions a court, judge or bench.
func (f *RowFinder) FindRows(rawHTML string, query string) ([]causelist.RowHit, error) {
	if err := causelist.ValidateQuery(query); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "failed to parse HTML: %v", err)
	}

	q := strings.ToLower(query)
	var hits []causelist.RowHit

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		text := spacedText(tr)
		if !strings.Contains(strings.ToLower(text), q) {
			return
		}

		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, spacedText(cell))
		})

		hit := causelist.RowHit{Text: text, Cells: cells}
		for _, c := range cells {
			if isDigits(c) {
				hit.Serial = &c
				break
			}
		}
		for i := len(cells) - 1; i >= 0; i-- {
			if containsFold(cells[i], rowCourtIndicators) {
				hit.Court = &cells[i]
				break
			}
		}
		hits = append(hits, hit)
	})

	return hits, nil
}

// spacedText joins the trimmed text nodes under sel with single spaces.
func spacedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsFold(s string, tokens []string) bool {
	lower := strings.ToLower(s)
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
