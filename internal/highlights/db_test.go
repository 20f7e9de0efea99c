package highlights

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ulikunitz/xz"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/sqlite"
)

// createNotesDB writes a minimal notes database with the given rows plus
// one bookmark row that must never surface as a highlight.
func createNotesDB(t *testing.T, records []Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mrbooks.db")
	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE notes (
		book TEXT,
		bookmark TEXT,
		highlightColor INTEGER,
		highlightLength INTEGER,
		original TEXT
	)`)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		_, err = db.Exec(`INSERT INTO notes VALUES ('My Book', '', ?, ?, ?)`,
			r.Color, r.Length, r.Text)
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err = db.Exec(`INSERT INTO notes VALUES ('My Book', 'page 12', 0, 0, 'a bookmark')`)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDBSourceHighlights verifies records come back in storage order and
// bookmark rows are excluded.
func TestDBSourceHighlights(t *testing.T) {
	want := []Record{
		{Color: 1996532479, Length: 5, Text: "hello"},
		{Color: -256, Length: 3, Text: "foo"},
	}
	path := createNotesDB(t, want)

	src, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got, err := src.Highlights(context.Background(), "My Book")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

// TestDBSourceUnknownBook verifies an unknown book yields zero records,
// not an error.
func TestDBSourceUnknownBook(t *testing.T) {
	path := createNotesDB(t, []Record{{Color: -256, Length: 3, Text: "foo"}})
	src, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got, err := src.Highlights(context.Background(), "No Such Book")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records for unknown book, want 0", len(got))
	}
}

// TestDBSourceCompressed verifies an xz-compressed database opens
// transparently and the decompressed copy is removed on Close.
func TestDBSourceCompressed(t *testing.T) {
	plain := createNotesDB(t, []Record{{Color: 2013265664, Length: 4, Text: "blue"}})

	compressed := filepath.Join(t.TempDir(), "mrbooks.db.xz")
	in, err := os.Open(plain)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	out, err := os.Create(compressed)
	if err != nil {
		t.Fatal(err)
	}
	xw, err := xz.NewWriter(out)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.Copy(xw, in); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := OpenDB(compressed)
	if err != nil {
		t.Fatal(err)
	}
	tempPath := src.tempPath
	if tempPath == "" {
		t.Fatal("compressed open should extract to a temp file")
	}

	got, err := src.Highlights(context.Background(), "My Book")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "blue" {
		t.Errorf("got %+v, want the single blue record", got)
	}

	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Error("decompressed copy should be removed on Close")
	}
}

// TestOpenDBMissing verifies a missing database reports a data access
// error.
func TestOpenDBMissing(t *testing.T) {
	if _, err := OpenDB(filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Fatal("expected error for missing database")
	}
}
