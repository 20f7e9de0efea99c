package pdftext

import "strings"

// Page holds one page's words plus a normalized text index for search.
type Page struct {
	Number int // zero-based page index

	words []wordSpan

	// lowered is the page text in lowercase with words joined by single
	// spaces; starts[i] is word i's byte offset into lowered. Matching on
	// this string makes search case-insensitive and indifferent to line
	// breaks and run-on whitespace in the source text.
	lowered string
	starts  []int
}

// NewPage builds a page from already-positioned words, grouping them into
// lines by vertical overlap. Words must be in reading order. The PDF
// document path assembles words itself; this constructor serves synthetic
// sources.
func NewPage(number int, words []Word) *Page {
	spans := make([]wordSpan, len(words))
	line := 0
	for i, w := range words {
		if i > 0 && !verticalOverlap(words[i-1].Rect, w.Rect) {
			line++
		}
		spans[i] = wordSpan{Word: w, line: line}
	}
	return newPage(number, spans)
}

func verticalOverlap(a, b Rect) bool {
	return a.Y0 < b.Y1 && b.Y0 < a.Y1
}

func newPage(number int, spans []wordSpan) *Page {
	p := &Page{Number: number, words: spans}
	p.buildIndex()
	return p
}

func (p *Page) buildIndex() {
	var b strings.Builder
	p.starts = make([]int, len(p.words))
	for i, w := range p.words {
		if i > 0 {
			b.WriteByte(' ')
		}
		p.starts[i] = b.Len()
		b.WriteString(strings.ToLower(w.Text))
	}
	p.lowered = b.String()
}

// Words returns the page's words in reading order. The returned slice is
// shared; callers must not modify it.
func (p *Page) Words() []Word {
	out := make([]Word, len(p.words))
	for i, w := range p.words {
		out[i] = w.Word
	}
	return out
}

// WordCount returns the number of words on the page.
func (p *Page) WordCount() int {
	return len(p.words)
}

// Text returns the page's normalized text: lowercase, words joined by
// single spaces.
func (p *Page) Text() string {
	return p.lowered
}

// Normalize lowercases a phrase and collapses all whitespace runs to
// single spaces, the same form Page.Text uses. Search does this to its
// needle internally; other packages use it to compare against page text.
func Normalize(phrase string) string {
	return strings.ToLower(strings.Join(strings.Fields(phrase), " "))
}

// Search finds every occurrence of phrase in the page text and returns
// one quad per line each occurrence touches. Matching is case-insensitive
// and ignores whitespace differences, but must align to word boundaries:
// a needle buried inside a longer word is not an exact occurrence (the
// fuzzy pass exists for those). An empty or whitespace-only phrase
// matches nothing.
func (p *Page) Search(phrase string) []Quad {
	needle := Normalize(phrase)
	if needle == "" || len(p.words) == 0 {
		return nil
	}

	var quads []Quad
	from := 0
	for {
		idx := strings.Index(p.lowered[from:], needle)
		if idx < 0 {
			break
		}
		s := from + idx
		e := s + len(needle)
		if p.onBoundaries(s, e) {
			quads = append(quads, p.spanQuads(s, e)...)
			from = e
		} else {
			from = s + 1
		}
	}
	return quads
}

// onBoundaries reports whether [s, e) starts at a word start and ends at
// a word end in the index text.
func (p *Page) onBoundaries(s, e int) bool {
	return (s == 0 || p.lowered[s-1] == ' ') &&
		(e == len(p.lowered) || p.lowered[e] == ' ')
}

// spanQuads maps a byte range of the index text to quads, one per line.
func (p *Page) spanQuads(s, e int) []Quad {
	first := p.wordAt(s)
	last := p.wordAt(e - 1)

	var quads []Quad
	i := first
	for i <= last {
		j := i
		r := p.words[i].Rect
		for j+1 <= last && p.words[j+1].line == p.words[i].line {
			j++
			r = r.Union(p.words[j].Rect)
		}
		quads = append(quads, r.Quad())
		i = j + 1
	}
	return quads
}

// wordAt returns the index of the word covering byte offset off in the
// index text. Offsets falling on a joining space belong to the following
// word.
func (p *Page) wordAt(off int) int {
	// Binary search over starts: last i with starts[i] <= off, then skip
	// forward if off lands on the space before the next word.
	lo, hi := 0, len(p.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	end := p.starts[lo] + len(strings.ToLower(p.words[lo].Text))
	if off >= end && lo+1 < len(p.words) {
		lo++
	}
	return lo
}
