package causelist

import "context"

// DefaultDocumentName is used when no file name can be derived from a location.
const DefaultDocumentName = "file.pdf"

// StoredDocument is the outcome of downloading a DocumentReference.
// Exactly one of Path and Err is set.
type StoredDocument struct {
	Reference DocumentReference

	// Position is the index of Reference in the extracted reference list.
	Position int

	Path        string
	ContentHash string
	Bytes       int64
	Err         error
}

// OK reports whether the document was stored.
func (d *StoredDocument) OK() bool {
	return d.Err == nil && d.Path != ""
}

// DocumentFetcher downloads a reference into a content store.
type DocumentFetcher interface {
	// Fetch never returns a nil document. Failures are recorded in the
	// document's Err field so that a batch can continue past them.
	Fetch(ctx context.Context, ref DocumentReference) *StoredDocument
}

// FetchProgress reports progress during a batch of fetches.
type FetchProgress struct {
	Location  string
	Completed int
	Total     int
	Error     error
}

// FetchProgressFunc is called as documents are fetched.
type FetchProgressFunc func(FetchProgress)

// HostLimiter provides per-host rate limiting.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
