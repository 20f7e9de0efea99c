package pdftext

import (
	"sort"
	"strings"
	"unicode/utf8"

	pdflib "github.com/ledongthuc/pdf"
)

const (
	// lineTolerance is the maximum baseline distance, in points, between
	// fragments considered part of the same line.
	lineTolerance = 2.0

	// ascentRatio and descentRatio size a word's box above and below its
	// baseline as fractions of the font size.
	ascentRatio  = 0.75
	descentRatio = 0.25

	// gapRatio is the fraction of the font size a horizontal gap between
	// fragments must exceed to start a new word.
	gapRatio = 0.3
)

// wordSpan is a word together with the index of the line it sits on.
// Lines are numbered top to bottom in reading order.
type wordSpan struct {
	Word
	line int
}

// assembleWords turns raw content-stream text fragments into words.
//
// Fragments are clustered into lines by baseline proximity, ordered top
// to bottom, then left to right within a line. Words break on whitespace
// fragments and on horizontal gaps wider than gapRatio of the font size.
func assembleWords(frags []pdflib.Text) []wordSpan {
	kept := make([]pdflib.Text, 0, len(frags))
	for _, f := range frags {
		if f.S == "" {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return nil
	}

	// Top of page first; PDF y grows upward.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Y > kept[j].Y
	})

	var words []wordSpan
	line := 0
	for start := 0; start < len(kept); {
		end := start + 1
		for end < len(kept) && kept[start].Y-kept[end].Y <= lineTolerance {
			end++
		}
		lineFrags := kept[start:end]
		sort.SliceStable(lineFrags, func(i, j int) bool {
			return lineFrags[i].X < lineFrags[j].X
		})
		words = appendLineWords(words, lineFrags, line)
		line++
		start = end
	}
	return words
}

// appendLineWords merges one line's fragments into words and appends them.
func appendLineWords(words []wordSpan, frags []pdflib.Text, line int) []wordSpan {
	var b wordBuilder
	for _, f := range frags {
		for _, piece := range splitFragment(f) {
			if strings.TrimSpace(piece.S) == "" {
				words = b.flush(words, line)
				continue
			}
			if b.active && piece.X-b.x1 > gapThreshold(piece.FontSize) {
				words = b.flush(words, line)
			}
			b.add(piece)
		}
	}
	return b.flush(words, line)
}

func gapThreshold(fontSize float64) float64 {
	g := gapRatio * fontSize
	if g < 1.0 {
		g = 1.0
	}
	return g
}

// splitFragment breaks a fragment containing internal spaces into pieces,
// allocating width proportionally by rune count. Most extractors emit one
// fragment per glyph, so this is the uncommon path.
func splitFragment(f pdflib.Text) []pdflib.Text {
	if !strings.ContainsAny(f.S, " \t") || strings.TrimSpace(f.S) == "" {
		return []pdflib.Text{f}
	}
	total := utf8.RuneCountInString(f.S)
	perRune := f.W / float64(total)

	var pieces []pdflib.Text
	runes := []rune(f.S)
	i := 0
	for i < len(runes) {
		j := i
		blank := runes[i] == ' ' || runes[i] == '\t'
		for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') == blank {
			j++
		}
		p := f
		p.S = string(runes[i:j])
		p.X = f.X + float64(i)*perRune
		p.W = float64(j-i) * perRune
		pieces = append(pieces, p)
		i = j
	}
	return pieces
}

// wordBuilder accumulates fragments of the word under construction.
type wordBuilder struct {
	active   bool
	text     strings.Builder
	x0, x1   float64
	baseline float64
	fontSize float64
}

func (b *wordBuilder) add(f pdflib.Text) {
	if !b.active {
		b.active = true
		b.x0 = f.X
		b.baseline = f.Y
		b.fontSize = f.FontSize
	}
	if f.FontSize > b.fontSize {
		b.fontSize = f.FontSize
	}
	b.text.WriteString(f.S)
	b.x1 = f.X + f.W
}

func (b *wordBuilder) flush(words []wordSpan, line int) []wordSpan {
	if !b.active {
		return words
	}
	fs := b.fontSize
	if fs <= 0 {
		fs = 10 // content streams may omit the size; assume body text
	}
	w := wordSpan{
		Word: Word{
			Rect: Rect{
				X0: b.x0,
				Y0: b.baseline - descentRatio*fs,
				X1: b.x1,
				Y1: b.baseline + ascentRatio*fs,
			},
			Text: b.text.String(),
		},
		line: line,
	}
	*b = wordBuilder{}
	return append(words, w)
}
