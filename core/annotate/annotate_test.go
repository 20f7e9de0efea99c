package annotate

import (
	"testing"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/colormap"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/pdftext"
)

func testWriter(numPages int) *Writer {
	return &Writer{
		inPath:   "test.pdf",
		numPages: numPages,
		perPage:  make(map[int][]highlight),
	}
}

func quad() pdftext.Quad {
	return pdftext.Rect{X0: 10, Y0: 690, X1: 80, Y1: 705}.Quad()
}

// TestAddQueues verifies valid highlights are queued per page.
func TestAddQueues(t *testing.T) {
	w := testWriter(3)
	if err := w.Add(1, []pdftext.Quad{quad()}, colormap.Yellow, "note"); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(1, []pdftext.Quad{quad()}, colormap.Red, "other"); err != nil {
		t.Fatal(err)
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}
	if len(w.perPage[1]) != 2 {
		t.Errorf("page 1 has %d highlights, want 2", len(w.perPage[1]))
	}
}

// TestAddRejectsInvalid verifies bad pages and regions are rejected at
// queue time without touching the batch.
func TestAddRejectsInvalid(t *testing.T) {
	w := testWriter(3)
	if err := w.Add(3, []pdftext.Quad{quad()}, colormap.Yellow, ""); err == nil {
		t.Error("out-of-range page should be rejected")
	}
	if err := w.Add(-1, []pdftext.Quad{quad()}, colormap.Yellow, ""); err == nil {
		t.Error("negative page should be rejected")
	}
	if err := w.Add(0, nil, colormap.Yellow, ""); err == nil {
		t.Error("empty region list should be rejected")
	}
	var degenerate pdftext.Quad
	if err := w.Add(0, []pdftext.Quad{degenerate}, colormap.Yellow, ""); err == nil {
		t.Error("degenerate quad should be rejected")
	}
	if w.Count() != 0 {
		t.Errorf("Count = %d after rejections, want 0", w.Count())
	}
}

// TestMarkup verifies the annotation carries the flattened quad points
// and a rect covering all quads.
func TestMarkup(t *testing.T) {
	q1 := pdftext.Rect{X0: 10, Y0: 690, X1: 80, Y1: 705}.Quad()
	q2 := pdftext.Rect{X0: 10, Y0: 670, X1: 60, Y1: 685}.Quad()
	m := markup(highlight{
		quads: []pdftext.Quad{q1, q2},
		color: colormap.Green,
		note:  "the original text",
	})
	if len(m.QuadPoints) != 8 {
		t.Fatalf("got %d quad points, want 8", len(m.QuadPoints))
	}
	if m.Common.Rect.LLy != 670 || m.Common.Rect.URy != 705 {
		t.Errorf("rect %+v should cover both quads", m.Common.Rect)
	}
	if m.Common.Contents != "the original text" {
		t.Errorf("note = %q", m.Common.Contents)
	}
	// Corner order: counterclockwise from bottom-left.
	if m.QuadPoints[0].X != 10 || m.QuadPoints[0].Y != 690 {
		t.Errorf("first corner = %+v, want bottom-left of q1", m.QuadPoints[0])
	}
}

// TestNewWriterMissingFile verifies open failures surface as document
// errors.
func TestNewWriterMissingFile(t *testing.T) {
	if _, err := NewWriter("/nonexistent/input.pdf"); err == nil {
		t.Fatal("expected error for missing input")
	}
}
