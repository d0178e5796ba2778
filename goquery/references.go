// Package goquery implements HTML inspection of cause-list pages using
// PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/causelist"
)

// Ensure LinkExtractor implements causelist.LinkExtractor at compile time.
var _ causelist.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor finds document links in anchors and embedded frames.
type LinkExtractor struct {
	extension string
}

// NewLinkExtractor creates a LinkExtractor for causelist.DocumentExtension.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{extension: causelist.DocumentExtension}
}

// ExtractReferences returns the document references in html.
//
// Anchors are collected first, in document order, then iframes. A reference
// seen more than once keeps its first label. Anchors without text are
// labelled causelist.UnknownLabel; frames are labelled causelist.FrameLabel.
func (e *LinkExtractor) ExtractReferences(html string, baseURL string) ([]causelist.DocumentReference, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "invalid base URL: %v", err)
	}
	if !base.IsAbs() {
		return nil, causelist.Errorf(causelist.EINVALID, "base URL must be absolute: %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var refs []causelist.DocumentReference

	add := func(raw string, label string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || isNonHTTPLink(raw) || !e.hasExtension(raw) {
			return
		}
		resolved := resolveURL(base, raw)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		refs = append(refs, causelist.DocumentReference{Label: label, Location: resolved})
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		label := strings.TrimSpace(sel.Text())
		if label == "" {
			label = causelist.UnknownLabel
		}
		add(href, label)
	})

	doc.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add(src, causelist.FrameLabel)
	})

	return refs, nil
}

func (e *LinkExtractor) hasExtension(href string) bool {
	return strings.HasSuffix(strings.ToLower(href), e.extension)
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
