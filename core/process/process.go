// Package process drives the highlight-transfer pipeline: records in,
// annotated document and a report out.
package process

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/colormap"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/locate"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/pdftext"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/highlights"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/logging"
)

// Progress is one progress callback payload, emitted synchronously after
// each record.
type Progress struct {
	Index   int // records processed so far, 1-based
	Total   int
	Message string
}

// ProgressFunc receives progress updates. Callbacks run on the pipeline
// goroutine; slow callbacks slow the run.
type ProgressFunc func(Progress)

// Locator finds a highlight's placement. *locate.Locator satisfies it.
type Locator interface {
	Locate(text string) (*locate.Match, error)
}

// Annotator queues one highlight for the output document.
// *annotate.Writer satisfies it.
type Annotator interface {
	Add(page int, quads []pdftext.Quad, col colormap.RGB, note string) error
}

// Report aggregates one run's outcome. Counters are final once Run
// returns; RunID, InputDigest and Output are filled by the job driver.
type Report struct {
	Total       int    `json:"total"`
	FoundExact  int    `json:"found_exact"`
	FoundFuzzy  int    `json:"found_fuzzy"`
	NotFound    int    `json:"not_found"`
	RunID       string `json:"run_id"`
	InputDigest string `json:"input_digest,omitempty"`
	Output      string `json:"output,omitempty"`
}

// Run places every record, counting outcomes. Individual failures are
// recovered: a record that cannot be located or annotated is counted as
// not found and the batch continues, so one bad highlight never aborts
// the run.
func Run(records []highlights.Record, loc Locator, ann Annotator, onProgress ProgressFunc) *Report {
	report := &Report{
		Total: len(records),
		RunID: uuid.NewString(),
	}

	for i, rec := range records {
		snippet := Snippet(rec.Text, 50)

		m, err := loc.Locate(rec.Text)
		switch {
		case err != nil:
			logging.Placement("locate", snippet, err)
			report.NotFound++
		case m == nil:
			logging.Debug("highlight not found", "snippet", snippet)
			report.NotFound++
		default:
			col := colormap.Map(rec.Color)
			if err := ann.Add(m.Page, m.Regions, col, rec.Text); err != nil {
				logging.Placement("annotate", snippet, err, "page", m.Page)
				report.NotFound++
				break
			}
			if m.Kind == locate.KindExact {
				report.FoundExact++
			} else {
				report.FoundFuzzy++
			}
			logging.Debug("highlight placed",
				"snippet", snippet, "page", m.Page, "kind", m.Kind.String(), "score", m.Score)
		}

		if onProgress != nil {
			onProgress(Progress{Index: i + 1, Total: len(records), Message: snippet})
		}
	}

	return report
}

// Snippet returns a short prefix of s for progress and log lines.
func Snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// InputDigest returns the hex BLAKE3 digest of the file at path, recorded
// in the report so a run can be tied to the exact input it processed.
func InputDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Summary renders the report counters on one line.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d highlights: %d exact, %d fuzzy, %d not found",
		r.Total, r.FoundExact, r.FoundFuzzy, r.NotFound)
}
