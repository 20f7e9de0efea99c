package errors

import (
	stderrors "errors"
	"testing"
)

// TestConfigError verifies message formatting and sentinel unwrapping.
func TestConfigError(t *testing.T) {
	err := NewConfig("pdf", "/tmp/book.pdf", nil)
	want := "pdf not usable: /tmp/book.pdf"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrConfig) {
		t.Error("ConfigError should unwrap to ErrConfig")
	}
}

// TestConfigErrorWithCause verifies that a wrapped cause takes precedence.
func TestConfigErrorWithCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := NewConfig("database", "/tmp/notes.sqlite", cause)
	if !Is(err, cause) {
		t.Error("ConfigError should unwrap to its cause")
	}
	if Is(err, ErrConfig) {
		t.Error("ConfigError with a cause should not also match ErrConfig")
	}
}

// TestDataAccessError verifies formatting and sentinel matching.
func TestDataAccessError(t *testing.T) {
	cause := stderrors.New("no such table: notes")
	err := NewDataAccess("query", "/tmp/notes.sqlite", cause)
	want := "highlight source query failed for /tmp/notes.sqlite: no such table: notes"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, cause) {
		t.Error("DataAccessError should unwrap to its cause")
	}
}

// TestDocumentError verifies the fatal document failure type.
func TestDocumentError(t *testing.T) {
	err := NewDocument("save", "out.pdf", stderrors.New("disk full"))
	want := "failed to save document out.pdf: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestPlacementError verifies per-record failures unwrap to ErrPlacement.
func TestPlacementError(t *testing.T) {
	err := NewPlacement("annotate", "hello wor", nil)
	if !Is(err, ErrPlacement) {
		t.Error("PlacementError should unwrap to ErrPlacement")
	}

	var pe *PlacementError
	if !As(err, &pe) {
		t.Fatal("As should find PlacementError")
	}
	if pe.Stage != "annotate" {
		t.Errorf("Stage = %q, want %q", pe.Stage, "annotate")
	}
}

// TestWrap verifies nil passthrough and message prefixing.
func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := stderrors.New("base")
	wrapped := Wrap(base, "context")
	if wrapped.Error() != "context: base" {
		t.Errorf("Wrap = %q, want %q", wrapped.Error(), "context: base")
	}
	if !Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}
}

// TestWrapf verifies formatted wrapping.
func TestWrapf(t *testing.T) {
	if Wrapf(nil, "page %d", 3) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := stderrors.New("base")
	wrapped := Wrapf(base, "page %d", 3)
	if wrapped.Error() != "page 3: base" {
		t.Errorf("Wrapf = %q, want %q", wrapped.Error(), "page 3: base")
	}
}
