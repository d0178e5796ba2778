// Package fs stores downloaded documents and run artifacts on the local
// filesystem.
package fs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/causelist"
)

// Ensure Downloader implements causelist.DocumentFetcher at compile time.
var _ causelist.DocumentFetcher = (*Downloader)(nil)

// Downloader streams referenced documents into a single directory.
type Downloader struct {
	dir       string
	transport causelist.Transport
}

// NewDownloader creates a Downloader that writes into dir using transport
// to open remote documents.
func NewDownloader(dir string, transport causelist.Transport) *Downloader {
	return &Downloader{dir: dir, transport: transport}
}

// Dir returns the destination directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// Fetch downloads ref into the destination directory. Failures are recorded
// on the returned document and never leave a partial file under the final
// name.
func (d *Downloader) Fetch(ctx context.Context, ref causelist.DocumentReference) *causelist.StoredDocument {
	doc := &causelist.StoredDocument{Reference: ref}

	dest := filepath.Join(d.dir, DocumentName(ref.Location))
	n, sum, err := d.save(ctx, ref.Location, dest)
	if err != nil {
		doc.Err = err
		return doc
	}

	doc.Path = dest
	doc.Bytes = n
	doc.ContentHash = sum
	return doc
}

func (d *Downloader) save(ctx context.Context, location, dest string) (int64, string, error) {
	body, err := d.transport.Open(ctx, location)
	if err != nil {
		return 0, "", err
	}
	defer body.Close()

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return 0, "", err
	}

	// Write next to the destination so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(d.dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, "", err
	}
	tmpPath := tmp.Name()

	h := xxhash.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("download %s: %w", location, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, "", err
	}

	return n, fmt.Sprintf("%016x", h.Sum64()), nil
}

// DocumentName derives a local file name from a document location.
// Example: https://x.test/lists/court%201.pdf?v=2 → court 1.pdf
func DocumentName(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return causelist.DefaultDocumentName
	}

	name := path.Base(u.EscapedPath())
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	switch name {
	case "", ".", "..", "_":
		return causelist.DefaultDocumentName
	}
	return name
}
