package highlights

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/colormap"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/errors"
)

// XFDF documents put everything in a default namespace, so the queries
// match on local names.
var (
	highlightExpr = xpath.MustCompile(`//*[local-name()='highlight']`)
	contentsExpr  = xpath.MustCompile(`.//*[local-name()='contents']`)
)

// XFDFSource serves highlight records parsed from an XFDF annotation
// file. XFDF has no book identity, so the book argument is ignored.
type XFDFSource struct {
	records []Record
}

// OpenXFDF parses the XFDF file at path.
func OpenXFDF(path string) (*XFDFSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataAccess("open", path, err)
	}
	defer f.Close()

	records, err := ParseXFDF(f)
	if err != nil {
		return nil, errors.NewDataAccess("parse", path, err)
	}
	return &XFDFSource{records: records}, nil
}

// Highlights returns the parsed records.
func (s *XFDFSource) Highlights(ctx context.Context, book string) ([]Record, error) {
	return s.records, nil
}

// Close is a no-op; the file is consumed at open time.
func (s *XFDFSource) Close() error {
	return nil
}

// ParseXFDF reads highlight annotations from an XFDF document. Each
// highlight element contributes one record: its contents text and its
// color attribute, re-encoded so the color mapper reproduces the same
// RGB.
func ParseXFDF(r io.Reader) ([]Record, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("xfdf parse: %w", err)
	}

	var records []Record
	for _, node := range xmlquery.QuerySelectorAll(doc, highlightExpr) {
		text := ""
		if c := xmlquery.QuerySelector(node, contentsExpr); c != nil {
			text = strings.TrimSpace(c.InnerText())
		}

		code, err := parseHexColor(node.SelectAttr("color"))
		if err != nil {
			return nil, fmt.Errorf("xfdf highlight color: %w", err)
		}

		records = append(records, Record{
			Color:  code,
			Length: utf8.RuneCountInString(text),
			Text:   text,
		})
	}
	return records, nil
}

// stockCodes maps exact stock colors to the reader's own codes. Using
// the palette code where one exists keeps the round trip exact; in
// particular the generic encoding of pure blue collides with the stock
// magenta code and must not be used.
var stockCodes = map[[3]uint8]int32{
	{255, 255, 0}: 1996532479,  // yellow
	{0, 255, 0}:   -1996554240, // green
	{0, 0, 255}:   2013265664,  // blue
	{255, 0, 0}:   -256,        // red
	{255, 0, 255}: 16711680,    // magenta
}

// parseHexColor converts "#RRGGBB" to a color code. A missing attribute
// means the viewer default, yellow.
func parseHexColor(s string) (int32, error) {
	if s == "" {
		return stockCodes[[3]uint8{255, 255, 0}], nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	r, g, b := uint8(v>>16), uint8(v>>8), uint8(v)
	if code, ok := stockCodes[[3]uint8{r, g, b}]; ok {
		return code, nil
	}
	return colormap.Encode(r, g, b), nil
}
