package highlights

import (
	"context"
	"database/sql"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/errors"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/sqlite"
)

// notesQuery selects highlights for one book. Rows with a non-empty
// bookmark column are bookmarks, not highlights, and are excluded here
// rather than filtered in code.
const notesQuery = `SELECT highlightColor, highlightLength, original
FROM notes WHERE book = ? AND bookmark = ''`

// DBSource reads highlights from a Moon+ Reader notes database.
type DBSource struct {
	db       *sql.DB
	path     string
	tempPath string // decompressed copy, removed on Close
}

// OpenDB opens the notes database at path read-only. Paths ending in
// ".xz" are decompressed to a temporary file first, so the reader's
// compressed backups work directly.
func OpenDB(path string) (*DBSource, error) {
	src := &DBSource{path: path}

	dbPath := path
	if strings.HasSuffix(path, ".xz") {
		tmp, err := decompressToTemp(path)
		if err != nil {
			return nil, errors.NewDataAccess("decompress", path, err)
		}
		src.tempPath = tmp
		dbPath = tmp
	}

	db, err := sqlite.OpenReadOnly(dbPath)
	if err != nil {
		src.cleanup()
		return nil, errors.NewDataAccess("open", path, err)
	}
	// Opening is lazy; ping so bad files fail here, not mid-run.
	if err := db.Ping(); err != nil {
		db.Close()
		src.cleanup()
		return nil, errors.NewDataAccess("open", path, err)
	}

	src.db = db
	return src, nil
}

// Highlights returns the book's highlight records in storage order.
func (s *DBSource) Highlights(ctx context.Context, book string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, notesQuery, book)
	if err != nil {
		return nil, errors.NewDataAccess("query", s.path, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Color, &r.Length, &r.Text); err != nil {
			return nil, errors.NewDataAccess("scan", s.path, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataAccess("query", s.path, err)
	}
	return records, nil
}

// Close closes the database and removes any decompressed copy.
func (s *DBSource) Close() error {
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	s.cleanup()
	return err
}

func (s *DBSource) cleanup() {
	if s.tempPath != "" {
		os.Remove(s.tempPath)
		s.tempPath = ""
	}
}

// decompressToTemp unpacks an xz-compressed database into a temporary
// file and returns its path.
func decompressToTemp(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "mrbooks-*.sqlite")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, xr); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
