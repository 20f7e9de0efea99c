// Package highlights reads stored highlight records for a book.
//
// The primary source is a Moon+ Reader notes database (SQLite, optionally
// xz-compressed as exported by the reader's backup function). An XFDF
// annotation file can serve as an alternative source.
package highlights

import "context"

// Record is one stored highlight: the reader's color code, the stored
// length, and the highlighted text.
type Record struct {
	Color  int32
	Length int
	Text   string
}

// Source yields the highlight records for a named book.
type Source interface {
	// Highlights returns all highlight records for the book, excluding
	// bookmarks. Order follows the underlying store.
	Highlights(ctx context.Context, book string) ([]Record, error)

	// Close releases the source's resources.
	Close() error
}
