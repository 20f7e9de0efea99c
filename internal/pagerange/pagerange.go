// Package pagerange parses page range expressions like "1-5,12,40-".
//
// Page numbers in expressions are one-based, as a reader would write
// them. A set restricts where the locator searches; an empty expression
// is invalid, but a nil *Set means no restriction.
package pagerange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// rangeLexer tokenizes page range expressions.
var rangeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d+`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// rangeParser parses comma-separated page range terms.
var rangeParser = participle.MustBuild[rangeExpr](
	participle.Lexer(rangeLexer),
	participle.Elide("Whitespace"),
)

type rangeExpr struct {
	Terms []rangeTerm `parser:"@@ ( ',' @@ )*"`
}

// rangeTerm is one term: "12", "1-5", or "40-" (open-ended).
type rangeTerm struct {
	Start int  `parser:"@Number"`
	Dash  bool `parser:"( @'-'"`
	End   *int `parser:"  @Number? )?"`
}

// span is a resolved term; end 0 means unbounded.
type span struct {
	start, end int
}

// Set is a parsed page range expression.
type Set struct {
	spans []span
}

// Parse parses an expression into a Set.
func Parse(input string) (*Set, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty page range")
	}

	expr, err := rangeParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", input, err)
	}

	s := &Set{}
	for _, t := range expr.Terms {
		sp := span{start: t.Start, end: t.Start}
		if t.Dash {
			sp.end = 0
			if t.End != nil {
				sp.end = *t.End
			}
		}
		if sp.start < 1 {
			return nil, fmt.Errorf("invalid page range %q: pages are numbered from 1", input)
		}
		if sp.end != 0 && sp.end < sp.start {
			return nil, fmt.Errorf("invalid page range %q: %d-%d is backwards", input, sp.start, sp.end)
		}
		s.spans = append(s.spans, sp)
	}
	return s, nil
}

// Contains reports whether the one-based page number is in the set.
// A nil set contains every page.
func (s *Set) Contains(page int) bool {
	if s == nil {
		return true
	}
	for _, sp := range s.spans {
		if page >= sp.start && (sp.end == 0 || page <= sp.end) {
			return true
		}
	}
	return false
}

// Filter returns a predicate over zero-based page indexes, the form the
// locator consumes. A nil set returns nil, meaning no restriction.
func (s *Set) Filter() func(index int) bool {
	if s == nil {
		return nil
	}
	return func(index int) bool {
		return s.Contains(index + 1)
	}
}

// String renders the set back in expression form.
func (s *Set) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(s.spans))
	for i, sp := range s.spans {
		switch {
		case sp.end == sp.start:
			parts[i] = strconv.Itoa(sp.start)
		case sp.end == 0:
			parts[i] = fmt.Sprintf("%d-", sp.start)
		default:
			parts[i] = fmt.Sprintf("%d-%d", sp.start, sp.end)
		}
	}
	return strings.Join(parts, ",")
}
