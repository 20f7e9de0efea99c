package process

import (
	"context"
	goerrors "errors"
	"path/filepath"
	"strings"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/annotate"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/errors"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/locate"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/pdftext"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/highlights"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/logging"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/pagerange"
)

// ErrNoHighlights means the source yielded zero records, so no output
// document was produced.
var ErrNoHighlights = goerrors.New("no highlights to process")

// outputSuffix is appended to the input file's stem for the default
// output name.
const outputSuffix = "_highlighted"

// JobConfig describes one end-to-end run.
type JobConfig struct {
	PDFPath string

	// Book and DBPath select the database source; XFDFPath selects the
	// XFDF source instead.
	Book     string
	DBPath   string
	XFDFPath string

	// OutputPath overrides the default "<input>_highlighted.pdf".
	OutputPath string

	Fuzzy         bool
	Threshold     int
	MaxCandidates int
	Pages         *pagerange.Set

	OnProgress ProgressFunc
}

// outputPath returns the effective output path for the job.
func (c JobConfig) outputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return DefaultOutputPath(c.PDFPath)
}

// DefaultOutputPath derives the output name from the input name,
// preserving the extension.
func DefaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	return strings.TrimSuffix(inPath, ext) + outputSuffix + ext
}

// RunJob runs the whole pipeline: read highlights, locate and queue each
// one, write the output document. The returned report is non-nil even on
// error, carrying whatever was counted before the failure.
//
// A highlight source failure is not fatal by itself: it is logged and
// treated as zero highlights, which then surfaces as ErrNoHighlights
// because no output can be produced.
func RunJob(ctx context.Context, cfg JobConfig) (*Report, error) {
	report := &Report{}

	records, err := readRecords(ctx, cfg)
	if err != nil {
		logging.Error("highlight source failed", "error", err.Error())
		records = nil
	}
	if len(records) == 0 {
		return report, ErrNoHighlights
	}

	digest, err := InputDigest(cfg.PDFPath)
	if err != nil {
		return report, errors.NewConfig("pdf", cfg.PDFPath, err)
	}

	doc, err := pdftext.Open(cfg.PDFPath)
	if err != nil {
		return report, err
	}
	defer doc.Close()

	writer, err := annotate.NewWriter(cfg.PDFPath)
	if err != nil {
		return report, err
	}

	loc := locate.New(doc, locate.Options{
		Fuzzy:         cfg.Fuzzy,
		Threshold:     cfg.Threshold,
		MaxCandidates: cfg.MaxCandidates,
		PageFilter:    cfg.Pages.Filter(),
	})

	logging.Info("processing highlights",
		"count", len(records), "pdf", cfg.PDFPath, "pages", doc.NumPages())

	report = Run(records, loc, writer, cfg.OnProgress)
	report.InputDigest = digest

	out := cfg.outputPath()
	if err := writer.WriteFile(out); err != nil {
		return report, err
	}
	report.Output = out

	logging.Info("output written", "path", out, "placed", writer.Count())
	return report, nil
}

// readRecords opens the configured source and drains it.
func readRecords(ctx context.Context, cfg JobConfig) ([]highlights.Record, error) {
	var src highlights.Source
	var err error
	if cfg.XFDFPath != "" {
		src, err = highlights.OpenXFDF(cfg.XFDFPath)
	} else {
		src, err = highlights.OpenDB(cfg.DBPath)
	}
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return src.Highlights(ctx, cfg.Book)
}
