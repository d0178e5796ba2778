// Package harvest downloads the documents referenced by a cause-list page.
// It coordinates rate limiting, retries and bounded concurrency around a
// causelist.DocumentFetcher.
package harvest

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/causelist"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Downloader.Concurrency is not positive.
const DefaultConcurrency = 4

// Downloader fetches many references concurrently.
type Downloader struct {
	Fetcher     causelist.DocumentFetcher
	RateLimiter causelist.HostLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Logf, if set, receives one line per retry.
	Logf LogFunc
}

// Result holds the outcome of a download batch.
type Result struct {
	// Documents has one entry per reference, in reference order.
	Documents []*causelist.StoredDocument

	Saved  int
	Failed int
	Bytes  int64
}

// FetchAll downloads every reference. A failed reference is recorded on its
// StoredDocument and never stops the rest of the batch. The progress
// callback, if provided, is called once per reference as it completes.
// An error is returned only when ctx is canceled.
func (d *Downloader) FetchAll(ctx context.Context, refs []causelist.DocumentReference, progress causelist.FetchProgressFunc) (*Result, error) {
	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan *causelist.StoredDocument, len(refs))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	go func() {
		for i, ref := range refs {
			g.Go(func() error {
				doc := d.fetch(ctx, ref)
				doc.Position = i
				resultCh <- doc
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order
	result := &Result{Documents: make([]*causelist.StoredDocument, len(refs))}
	completed := 0
	for doc := range resultCh {
		completed++
		result.Documents[doc.Position] = doc

		if doc.OK() {
			result.Saved++
			result.Bytes += doc.Bytes
		} else {
			result.Failed++
		}

		if progress != nil {
			progress(causelist.FetchProgress{
				Location:  doc.Reference.Location,
				Completed: completed,
				Total:     len(refs),
				Error:     doc.Err,
			})
		}
	}

	return result, ctx.Err()
}

// fetch downloads a single reference after waiting for its host's limiter.
func (d *Downloader) fetch(ctx context.Context, ref causelist.DocumentReference) *causelist.StoredDocument {
	if d.RateLimiter != nil {
		if err := d.RateLimiter.Wait(ctx, hostOf(ref.Location)); err != nil {
			return &causelist.StoredDocument{Reference: ref, Err: err}
		}
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, ref, d.Fetcher, d.Logf, delays)
}

func hostOf(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Host
}
