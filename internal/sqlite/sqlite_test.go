package sqlite

import (
	"path/filepath"
	"testing"
)

// TestOpenAndQuery verifies the configured driver can create, write, and
// read a database file.
func TestOpenAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER, name TEXT)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO t VALUES (1, 'one')`); err != nil {
		t.Fatal(err)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM t WHERE id = 1`).Scan(&name); err != nil {
		t.Fatal(err)
	}
	if name != "one" {
		t.Errorf("got %q, want one", name)
	}
}

// TestOpenReadOnly verifies writes are rejected in read-only mode.
func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ro.Close()

	var n int
	if err := ro.QueryRow(`SELECT count(*) FROM t`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if _, err := ro.Exec(`INSERT INTO t VALUES (1)`); err == nil {
		t.Error("insert should fail on a read-only connection")
	}
}

// TestGetInfo verifies the driver metadata is populated.
func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.DriverName == "" || info.DriverType == "" || info.Package == "" {
		t.Errorf("incomplete driver info: %+v", info)
	}
	if info.IsCGO != (info.DriverType == "cgo") {
		t.Errorf("IsCGO inconsistent with driver type: %+v", info)
	}
}
