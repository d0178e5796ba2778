package harvest

import (
	"context"
	"time"

	"github.com/fwojciec/causelist"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return causelist.DefaultConfig().RetryDelays()
}

// FetchWithRetryDelays fetches ref, retrying failed attempts after each of
// the given delays. Failures that causelist.Retryable reports as permanent
// are returned at once. The last attempt's document is returned.
func FetchWithRetryDelays(ctx context.Context, ref causelist.DocumentReference, fetcher causelist.DocumentFetcher, logger LogFunc, delays []time.Duration) *causelist.StoredDocument {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var doc *causelist.StoredDocument
	for attempt := 0; attempt < maxAttempts; attempt++ {
		doc = fetcher.Fetch(ctx, ref)
		if doc.OK() || !causelist.Retryable(doc.Err) {
			return doc
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		if err := ctx.Err(); err != nil {
			doc.Err = err
			return doc
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", ref.Location, attempt+2, doc.Err)
		}

		select {
		case <-ctx.Done():
			doc.Err = ctx.Err()
			return doc
		case <-time.After(delays[attempt]):
		}
	}

	return doc
}
