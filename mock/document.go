package mock

import (
	"context"

	"github.com/fwojciec/causelist"
)

var (
	_ causelist.DocumentFetcher = (*DocumentFetcher)(nil)
	_ causelist.HostLimiter     = (*HostLimiter)(nil)
)

// DocumentFetcher is a mock implementation of causelist.DocumentFetcher.
type DocumentFetcher struct {
	FetchFn func(ctx context.Context, ref causelist.DocumentReference) *causelist.StoredDocument
}

func (f *DocumentFetcher) Fetch(ctx context.Context, ref causelist.DocumentReference) *causelist.StoredDocument {
	return f.FetchFn(ctx, ref)
}

// HostLimiter is a mock implementation of causelist.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
