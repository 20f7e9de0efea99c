// Package locate finds the page regions covering a highlight's text.
//
// Location runs in two passes over the document. The exact pass looks for
// the normalized highlight text as a literal substring of each page's
// text. If that misses and fuzzy matching is enabled, the fuzzy pass
// scores individual page words against the highlight text and settles on
// the best-scoring word of the earliest page with any candidate.
package locate

import (
	"sort"
	"strings"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/cache"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/pdftext"
)

// Kind tells how a match was found.
type Kind int

const (
	// KindExact means the highlight text appeared literally on the page.
	KindExact Kind = iota
	// KindFuzzy means a page word scored above the similarity threshold.
	KindFuzzy
)

func (k Kind) String() string {
	if k == KindFuzzy {
		return "fuzzy"
	}
	return "exact"
}

// Match is the located placement of one highlight.
type Match struct {
	Page    int            // zero-based page index
	Regions []pdftext.Quad // one quad per line the match touches
	Kind    Kind
	Score   int // similarity score; 100 for exact matches
}

// Source yields pages of positioned words. *pdftext.Document satisfies it.
type Source interface {
	NumPages() int
	Page(index int) (*pdftext.Page, error)
}

// Defaults for Options fields left zero.
const (
	DefaultThreshold     = 80
	DefaultMaxCandidates = 5

	// minTokenLen is the shortest word, in runes, the fuzzy pass will
	// score. Shorter tokens match everything and place highlights on
	// noise.
	minTokenLen = 4
)

// Options configures a Locator.
type Options struct {
	// Fuzzy enables the fallback pass. Disabled, a highlight either
	// matches exactly or is not found.
	Fuzzy bool

	// Threshold is the minimum similarity score (0-100) for a fuzzy
	// candidate. Zero means DefaultThreshold.
	Threshold int

	// MaxCandidates caps how many qualifying words are kept per page
	// after sorting by score. Zero means DefaultMaxCandidates.
	MaxCandidates int

	// PageFilter restricts the search to pages for which it returns
	// true, by zero-based index. Nil searches every page.
	PageFilter func(index int) bool
}

// DefaultOptions returns the options matching the reader's own behavior.
func DefaultOptions() Options {
	return Options{
		Fuzzy:         true,
		Threshold:     DefaultThreshold,
		MaxCandidates: DefaultMaxCandidates,
	}
}

// Locator locates highlight text in one document. It keeps a run-scoped
// page cache, so a batch of highlights extracts each page's text once.
type Locator struct {
	src   Source
	opts  Options
	pages *cache.PageCache
}

// New creates a Locator over src. Zero option fields get defaults.
func New(src Source, opts Options) *Locator {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	return &Locator{
		src:   src,
		opts:  opts,
		pages: cache.NewDefaultPageCache(),
	}
}

// Locate finds where text sits in the document. A clean miss returns
// (nil, nil); errors are page extraction failures. Empty or
// whitespace-only text never matches.
//
// Pages are scanned in order and the first page with a match wins, so a
// passage repeated later in the book is always pinned to its earliest
// occurrence.
func (l *Locator) Locate(text string) (*Match, error) {
	needle := pdftext.Normalize(text)
	if needle == "" {
		return nil, nil
	}

	if m, err := l.exactPass(needle); m != nil || err != nil {
		return m, err
	}
	if !l.opts.Fuzzy {
		return nil, nil
	}
	return l.fuzzyPass(needle)
}

func (l *Locator) exactPass(needle string) (*Match, error) {
	for i := 0; i < l.src.NumPages(); i++ {
		if l.skip(i) {
			continue
		}
		page, err := l.page(i)
		if err != nil {
			return nil, err
		}
		if quads := page.Search(needle); len(quads) > 0 {
			return &Match{Page: i, Regions: quads, Kind: KindExact, Score: 100}, nil
		}
	}
	return nil, nil
}

func (l *Locator) fuzzyPass(needle string) (*Match, error) {
	for i := 0; i < l.src.NumPages(); i++ {
		if l.skip(i) {
			continue
		}
		page, err := l.page(i)
		if err != nil {
			return nil, err
		}
		best, ok := l.bestCandidate(page.Words(), needle)
		if !ok {
			continue
		}
		return &Match{
			Page:    i,
			Regions: []pdftext.Quad{best.rect.Quad()},
			Kind:    KindFuzzy,
			Score:   best.score,
		}, nil
	}
	return nil, nil
}

type candidate struct {
	rect  pdftext.Rect
	score int
}

// bestCandidate scores every word on the page against the needle, keeps
// the qualifying ones sorted by descending score, and returns the top
// candidate. Words are scored in reading order and the sort is stable,
// so among equal scores the earliest word wins. The candidate list is
// truncated to MaxCandidates after sorting, which never changes the
// winner.
func (l *Locator) bestCandidate(words []pdftext.Word, needle string) (candidate, bool) {
	var cands []candidate
	for _, w := range words {
		if utf8.RuneCountInString(w.Text) < minTokenLen {
			continue
		}
		score := fuzzy.PartialRatio(needle, strings.ToLower(w.Text))
		if score >= l.opts.Threshold {
			cands = append(cands, candidate{rect: w.Rect, score: score})
		}
	}
	if len(cands) == 0 {
		return candidate{}, false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})
	if len(cands) > l.opts.MaxCandidates {
		cands = cands[:l.opts.MaxCandidates]
	}
	return cands[0], true
}

func (l *Locator) skip(index int) bool {
	return l.opts.PageFilter != nil && !l.opts.PageFilter(index)
}

// page returns the extracted page, reading through the run cache.
func (l *Locator) page(index int) (*pdftext.Page, error) {
	if p, ok := l.pages.Get(index); ok {
		return p, nil
	}
	p, err := l.src.Page(index)
	if err != nil {
		return nil, err
	}
	l.pages.Put(index, p)
	return p, nil
}
