// Package search runs a query across a set of documents: it extracts each
// document's text, finds occurrences, resolves heuristic fields and
// aggregates the per-document results into a report.
package search

import (
	"context"
	"sync"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/fs"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Searcher.Concurrency is not positive.
const DefaultConcurrency = 4

// Searcher searches documents for a query.
type Searcher struct {
	Extractor   causelist.TextExtractor
	Concurrency int
}

// Progress reports the outcome of one document.
type Progress struct {
	Path      string
	Completed int
	Total     int
	Hits      int

	// Skipped is set when a prefilter ruled the document out without
	// extracting its text.
	Skipped bool
	Error   error
}

// ProgressFunc is a callback for reporting search progress.
type ProgressFunc func(Progress)

// docResult holds the outcome of searching a single document.
type docResult struct {
	result  *causelist.DocumentSearchResult
	skipped bool
	err     error
}

// SearchFolder searches every PDF directly inside folder.
func (s *Searcher) SearchFolder(ctx context.Context, folder, query string, progress ProgressFunc) (*causelist.SearchReport, error) {
	if err := causelist.ValidateQuery(query); err != nil {
		return nil, err
	}
	paths, err := fs.ListDocuments(folder)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, paths, query, progress)
}

// Search searches the documents at paths. A document whose text cannot be
// extracted is counted in SearchReport.Failed and left out of the results.
// A missing extraction capability aborts the whole search.
func (s *Searcher) Search(ctx context.Context, paths []string, query string, progress ProgressFunc) (*causelist.SearchReport, error) {
	if err := causelist.ValidateQuery(query); err != nil {
		return nil, err
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	results := make([]docResult, len(paths))
	completed := 0

	for i, path := range paths {
		g.Go(func() error {
			r := s.searchDocument(gctx, i, path, query)
			if r.err != nil && abortsSearch(gctx, r.err) {
				return r.err
			}

			mu.Lock()
			defer mu.Unlock()
			results[i] = r
			completed++
			if progress != nil {
				p := Progress{Path: path, Completed: completed, Total: len(paths), Skipped: r.skipped, Error: r.err}
				if r.result != nil {
					p.Hits = r.result.OccurrenceCount
				}
				progress(p)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := make([]causelist.DocumentSearchResult, 0, len(paths))
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			continue
		}
		found = append(found, *r.result)
	}

	report := causelist.Aggregate(found)
	report.Failed = failed
	return report, nil
}

// searchDocument extracts, scans and enriches a single document.
func (s *Searcher) searchDocument(ctx context.Context, position int, path, query string) docResult {
	var r docResult

	if filter, ok := s.Extractor.(causelist.QueryFilter); ok {
		// A filter error falls through to a full extraction.
		if may, err := filter.MayContain(ctx, path, query); err == nil && !may {
			res := causelist.NewDocumentSearchResult(position, path, []causelist.Hit{})
			r.result = &res
			r.skipped = true
			return r
		}
	}

	pages, err := s.Extractor.ExtractText(ctx, path)
	if err != nil {
		r.err = err
		return r
	}

	hits, err := FindHits(pages, query)
	if err != nil {
		r.err = err
		return r
	}
	res := causelist.NewDocumentSearchResult(position, path, hits)
	r.result = &res
	return r
}

// FindHits scans the joined pages for query and enriches every occurrence
// with its page number and heuristic fields.
func FindHits(pages causelist.PageText, query string) ([]causelist.Hit, error) {
	occurrences, err := causelist.Find(pages.Join(), query)
	if err != nil {
		return nil, err
	}

	hits := make([]causelist.Hit, 0, len(occurrences))
	for _, o := range occurrences {
		hits = append(hits, causelist.Hit{
			Occurrence: o,
			Page:       pages.PageAt(o.Index),
			Heuristics: causelist.Resolve(o.Snippet),
		})
	}
	return hits, nil
}

// abortsSearch reports whether err should stop the whole search rather than
// count as one failed document.
func abortsSearch(ctx context.Context, err error) bool {
	if causelist.ErrorCode(err) == causelist.EUNAVAILABLE {
		return true
	}
	return ctx.Err() != nil
}
