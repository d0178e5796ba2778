package causelist

import "context"

// Compile-time interface verification.
var (
	_ Renderer      = (*UnavailableRenderer)(nil)
	_ TextExtractor = (*UnavailableTextExtractor)(nil)
)

// UnavailableRenderer stands in for a renderer whose backend could not be
// started. Every Render fails with EUNAVAILABLE.
type UnavailableRenderer struct {
	Reason string
}

// Render always fails.
func (r *UnavailableRenderer) Render(ctx context.Context, url string) (*Snapshot, error) {
	return nil, Errorf(EUNAVAILABLE, "page rendering unavailable: %s", r.Reason)
}

// Close is a no-op.
func (r *UnavailableRenderer) Close() error {
	return nil
}

// UnavailableTextExtractor stands in for a text extraction backend that
// could not be loaded. Every ExtractText fails with EUNAVAILABLE.
type UnavailableTextExtractor struct {
	Reason string
}

// ExtractText always fails.
func (e *UnavailableTextExtractor) ExtractText(ctx context.Context, path string) (PageText, error) {
	return nil, Errorf(EUNAVAILABLE, "text extraction unavailable: %s", e.Reason)
}
