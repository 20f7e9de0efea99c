package process

import (
	"errors"
	"testing"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/colormap"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/locate"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/pdftext"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/highlights"
)

// pageSource serves a single synthetic page per entry.
type pageSource struct {
	pages []*pdftext.Page
}

func (s *pageSource) NumPages() int { return len(s.pages) }

func (s *pageSource) Page(index int) (*pdftext.Page, error) {
	return s.pages[index], nil
}

func pageWith(texts ...string) *pdftext.Page {
	words := make([]pdftext.Word, len(texts))
	x := 10.0
	for i, t := range texts {
		w := float64(len(t)) * 6
		words[i] = pdftext.Word{
			Rect: pdftext.Rect{X0: x, Y0: 697.5, X1: x + w, Y1: 707.5},
			Text: t,
		}
		x += w + 4
	}
	return pdftext.NewPage(0, words)
}

// fakeAnnotator records Add calls and can be told to fail.
type fakeAnnotator struct {
	added  []int
	colors []colormap.RGB
	fail   bool
}

func (a *fakeAnnotator) Add(page int, quads []pdftext.Quad, col colormap.RGB, note string) error {
	if a.fail {
		return errors.New("bad region")
	}
	a.added = append(a.added, page)
	a.colors = append(a.colors, col)
	return nil
}

func newLocator(fuzzy bool, pages ...*pdftext.Page) *locate.Locator {
	opts := locate.DefaultOptions()
	opts.Fuzzy = fuzzy
	return locate.New(&pageSource{pages: pages}, opts)
}

// TestRunExactAndNotFound processes one findable and one unfindable
// record: the findable one is placed yellow, the other is counted not
// found, and the batch runs to completion.
func TestRunExactAndNotFound(t *testing.T) {
	records := []highlights.Record{
		{Color: 1996532479, Length: 5, Text: "hello"},
		{Color: -256, Length: 3, Text: "foo"},
	}
	ann := &fakeAnnotator{}
	report := Run(records, newLocator(true, pageWith("hello", "world")), ann, nil)

	if report.Total != 2 || report.FoundExact != 1 || report.FoundFuzzy != 0 || report.NotFound != 1 {
		t.Errorf("report = %+v, want total 2, exact 1, fuzzy 0, notFound 1", report)
	}
	if len(ann.added) != 1 || ann.colors[0] != colormap.Yellow {
		t.Errorf("annotator got %v pages, colors %v; want one yellow highlight", ann.added, ann.colors)
	}
	if report.RunID == "" {
		t.Error("report should carry a run ID")
	}
}

// TestRunFuzzy verifies a near-match token is placed as a fuzzy result.
func TestRunFuzzy(t *testing.T) {
	records := []highlights.Record{{Color: -256, Length: 3, Text: "foo"}}
	ann := &fakeAnnotator{}
	report := Run(records, newLocator(true, pageWith("hello", "foobar")), ann, nil)

	if report.FoundFuzzy != 1 || report.NotFound != 0 {
		t.Errorf("report = %+v, want fuzzy 1", report)
	}
}

// TestRunContinueOnError verifies annotator failures are recovered and
// counted, never aborting the batch.
func TestRunContinueOnError(t *testing.T) {
	records := []highlights.Record{
		{Text: "hello"},
		{Text: "world"},
		{Text: "absent passage"},
	}
	ann := &fakeAnnotator{fail: true}
	report := Run(records, newLocator(true, pageWith("hello", "world")), ann, nil)

	if report.Total != 3 || report.NotFound != 3 {
		t.Errorf("report = %+v, want all 3 counted not found", report)
	}
}

// TestRunProgress verifies the callback fires once per record with
// 1-based indexes.
func TestRunProgress(t *testing.T) {
	records := []highlights.Record{{Text: "hello"}, {Text: "xyz"}}
	var seen []Progress
	Run(records, newLocator(true, pageWith("hello")), &fakeAnnotator{},
		func(p Progress) { seen = append(seen, p) })

	if len(seen) != 2 {
		t.Fatalf("got %d progress events, want 2", len(seen))
	}
	if seen[0].Index != 1 || seen[1].Index != 2 || seen[1].Total != 2 {
		t.Errorf("progress events = %+v", seen)
	}
}

// TestRunDeterminism verifies two identical runs produce identical
// counters.
func TestRunDeterminism(t *testing.T) {
	records := []highlights.Record{
		{Text: "hello"},
		{Text: "foo"},
		{Text: "nothing here at all"},
	}
	run := func() Report {
		r := Run(records, newLocator(true, pageWith("hello", "foobar")), &fakeAnnotator{}, nil)
		r.RunID = ""
		return *r
	}
	if a, b := run(), run(); a != b {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
}

// TestSnippet verifies rune-safe truncation.
func TestSnippet(t *testing.T) {
	if got := Snippet("short", 10); got != "short" {
		t.Errorf("Snippet(short) = %q", got)
	}
	if got := Snippet("aaaaabbbbb", 5); got != "aaaaa..." {
		t.Errorf("Snippet = %q", got)
	}
	if got := Snippet("ééééé", 3); got != "ééé..." {
		t.Errorf("Snippet on multibyte runes = %q", got)
	}
}

// TestDefaultOutputPath verifies the suffix is inserted before the
// extension.
func TestDefaultOutputPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"book.pdf", "book_highlighted.pdf"},
		{"/tmp/a/book.pdf", "/tmp/a/book_highlighted.pdf"},
		{"noext", "noext_highlighted"},
		{"archive.tar.pdf", "archive.tar_highlighted.pdf"},
	}
	for _, c := range cases {
		if got := DefaultOutputPath(c.in); got != c.want {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
