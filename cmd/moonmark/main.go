// Command moonmark transfers Moon+ Reader highlights onto a PDF.
// It reads highlight records from the reader's notes database, finds each
// highlight's text in the PDF, and writes a highlighted copy.
package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/errors"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/process"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/logging"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/pagerange"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/sqlite"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/web"
)

const version = "1.0.0"

// CLI defines the command-line interface for moonmark.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" help:"Log format (text, json)"`

	Apply   ApplyCmd   `cmd:"" help:"Transfer highlights from a notes database onto a PDF"`
	Web     WebCmd     `cmd:"" help:"Start the local web form UI"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ApplyCmd runs one batch transfer.
type ApplyCmd struct {
	PDF      string `name:"pdf" short:"p" required:"" type:"existingfile" help:"PDF document to highlight"`
	Book     string `name:"book" short:"b" help:"Book name exactly as stored in the notes database"`
	Database string `name:"database" short:"d" type:"existingfile" help:"Moon+ Reader notes database (.db or .db.xz)"`
	FromXFDF string `name:"from-xfdf" type:"existingfile" help:"Read highlights from an XFDF file instead of the database"`
	Output   string `name:"output" short:"o" type:"path" help:"Output path (default: <input>_highlighted.pdf)"`

	NoFuzzy       bool   `name:"no-fuzzy" help:"Disable fuzzy fallback matching"`
	Threshold     int    `name:"threshold" default:"80" help:"Fuzzy similarity threshold (1-100)"`
	MaxCandidates int    `name:"max-candidates" default:"5" help:"Fuzzy candidates kept per page"`
	Pages         string `name:"pages" help:"Restrict search to pages, e.g. \"1-5,12,40-\""`
}

// Run executes the transfer and reports the outcome. The process exits
// non-zero whenever no output file was produced.
func (c *ApplyCmd) Run() error {
	if c.FromXFDF == "" && (c.Database == "" || c.Book == "") {
		return errors.NewConfig("arguments", "",
			fmt.Errorf("--database and --book are required unless --from-xfdf is given"))
	}
	if c.Threshold < 1 || c.Threshold > 100 {
		return errors.NewConfig("threshold", "",
			fmt.Errorf("threshold %d outside 1-100", c.Threshold))
	}

	var pages *pagerange.Set
	if c.Pages != "" {
		var err error
		pages, err = pagerange.Parse(c.Pages)
		if err != nil {
			return errors.NewConfig("pages", c.Pages, err)
		}
	}

	cfg := process.JobConfig{
		PDFPath:       c.PDF,
		Book:          c.Book,
		DBPath:        c.Database,
		XFDFPath:      c.FromXFDF,
		OutputPath:    c.Output,
		Fuzzy:         !c.NoFuzzy,
		Threshold:     c.Threshold,
		MaxCandidates: c.MaxCandidates,
		Pages:         pages,
		OnProgress: func(p process.Progress) {
			logging.Progress(p.Index, p.Total, p.Message)
		},
	}

	report, err := process.RunJob(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())
	fmt.Printf("Output: %s\n", report.Output)
	return nil
}

// WebCmd serves the local form UI.
type WebCmd struct {
	Addr string `name:"addr" default:"127.0.0.1:8787" help:"Listen address"`
}

func (c *WebCmd) Run() error {
	return web.NewServer(c.Addr).ListenAndServe()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Printf("moonmark %s (sqlite driver: %s/%s)\n", version, info.DriverName, info.DriverType)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("moonmark"),
		kong.Description("Transfer Moon+ Reader highlights onto a PDF"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
