package pdftext

import (
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/errors"
)

// Document is an open PDF whose pages can be read as positioned words.
type Document struct {
	path     string
	f        *os.File
	r        *pdflib.Reader
	numPages int
}

// Open opens the PDF at path for text extraction.
func Open(path string) (*Document, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, errors.NewDocument("open", path, err)
	}
	return &Document{path: path, f: f, r: r, numPages: r.NumPage()}, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.f.Close()
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.numPages
}

// Page extracts the words of the page at the zero-based index. Pages
// without a text layer yield an empty page, not an error.
func (d *Document) Page(index int) (p *Page, err error) {
	if index < 0 || index >= d.numPages {
		return nil, errors.NewDocument("read", d.path,
			fmt.Errorf("page index %d out of range [0, %d)", index, d.numPages))
	}

	// The extractor panics on some malformed content streams; treat
	// those pages as unreadable rather than taking the process down.
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = errors.NewDocument("extract",
				fmt.Sprintf("%s#%d", d.path, index),
				fmt.Errorf("content stream: %v", r))
		}
	}()

	pg := d.r.Page(index + 1)
	if pg.V.IsNull() {
		return newPage(index, nil), nil
	}
	content := pg.Content()
	return newPage(index, assembleWords(content.Text)), nil
}
