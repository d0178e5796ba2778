package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/bloom"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ causelist.TextExtractor = (*TextIndex)(nil)
	_ causelist.QueryFilter   = (*TextIndex)(nil)
)

// TextIndex caches the pages produced by another TextExtractor, keyed by
// the content hash of the document file and the name of the backend that
// produced them. It also stores a trigram filter per document so searches
// can skip documents that cannot match.
//
// Backends extract different text from the same file, so an entry written
// by one backend is never served or consulted by another.
type TextIndex struct {
	db      *DB
	backend string
	next    causelist.TextExtractor
}

// NewTextIndex creates a TextIndex in front of next, which is identified by
// backend in the index.
func NewTextIndex(db *DB, backend string, next causelist.TextExtractor) *TextIndex {
	return &TextIndex{db: db, backend: backend, next: next}
}

// Backend returns the name of the backend the index serves.
func (x *TextIndex) Backend() string {
	return x.backend
}

// ExtractText returns cached pages for the file at path, extracting and
// storing them on a miss.
func (x *TextIndex) ExtractText(ctx context.Context, path string) (causelist.PageText, error) {
	hash, err := hashFile(path)
	if err != nil {
		return nil, err
	}

	pages, ok, err := x.lookup(ctx, hash)
	if err != nil {
		return nil, err
	}
	if ok {
		return pages, nil
	}

	pages, err = x.next.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := x.store(ctx, hash, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// MayContain reports whether the document at path could contain query.
// Documents not yet indexed always pass.
func (x *TextIndex) MayContain(ctx context.Context, path, query string) (bool, error) {
	hash, err := hashFile(path)
	if err != nil {
		return false, err
	}

	var data []byte
	err = x.db.QueryRowContext(ctx, "SELECT filter FROM documents WHERE content_hash = ? AND backend = ?", hash, x.backend).Scan(&data)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return true, nil
	}

	f, err := bloom.Decode(data)
	if err != nil {
		// A damaged filter only costs a full extraction.
		return true, nil
	}
	return f.MayContain(query), nil
}

// Count returns the number of documents indexed by the index's backend.
func (x *TextIndex) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE backend = ?", x.backend).Scan(&n)
	return n, err
}

func (x *TextIndex) lookup(ctx context.Context, hash string) (causelist.PageText, bool, error) {
	var id string
	var count int
	err := x.db.QueryRowContext(ctx, "SELECT id, page_count FROM documents WHERE content_hash = ? AND backend = ?", hash, x.backend).Scan(&id, &count)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := x.db.QueryContext(ctx, "SELECT number, text FROM pages WHERE document_id = ? ORDER BY number ASC", id)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	pages := make(causelist.PageText, count)
	for rows.Next() {
		var number int
		var text string
		if err := rows.Scan(&number, &text); err != nil {
			return nil, false, err
		}
		if number >= 1 && number <= count {
			pages[number-1] = text
		}
	}
	return pages, true, rows.Err()
}

func (x *TextIndex) store(ctx context.Context, hash string, pages causelist.PageText) error {
	filter, err := bloom.NewTextFilter(pages.Join(), bloom.DefaultFalsePositiveRate).MarshalBinary()
	if err != nil {
		return err
	}

	tx, err := x.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, content_hash, backend, page_count, filter, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash, backend) DO NOTHING
	`, id, hash, x.backend, len(pages), filter, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	// Another worker indexed identical content first.
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return nil
	}

	for i, text := range pages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO pages (document_id, number, text) VALUES (?, ?, ?)",
			id, i+1, text); err != nil {
			return err
		}
	}

	return tx.Commit()
}
