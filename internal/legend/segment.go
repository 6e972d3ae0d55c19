package legend

import (
	"strings"
	"unicode"

	"github.com/dgallion1/linecolors/internal/pdftext"
)

// Candidate is a substring of a run that may be a line identifier, with the
// glyph positions it was drawn at.
type Candidate struct {
	Text      string
	Positions []pdftext.GlyphPosition
}

// Segment splits a run into candidate line identifiers. The renderer emits
// neighbouring legend entries without separators, so the split is decided
// by the run length:
//
//	"671533"       -> "671", "533"
//	"(678)(679)"   -> "(678)", "(679)"
//	"(1041)(1042)" -> "(1041)", "(1042)"
//	"(2025/2026)"  -> "(2025", "2026)"
//
// Anything else is a single candidate. Lengths are counted in runes.
func Segment(text string, positions []pdftext.GlyphPosition) []Candidate {
	r := []rune(text)
	switch {
	case len(r) == 6 && allDigits(r[:3]) && allDigits(r[3:]):
		return []Candidate{
			candidate(r, positions, 0, 3),
			candidate(r, positions, 3, 6),
		}
	case len(r) == 10:
		return []Candidate{
			candidate(r, positions, 0, 5),
			candidate(r, positions, 5, 10),
		}
	case len(r) == 12:
		return []Candidate{
			candidate(r, positions, 0, 6),
			candidate(r, positions, 6, 12),
		}
	}

	if idx := indexRune(r, '/'); idx >= 0 {
		tail := candidate(r, positions, idx, len(r))
		tail.Text = strings.ReplaceAll(tail.Text, "/", "")
		return []Candidate{
			candidate(r, positions, 0, idx),
			tail,
		}
	}
	return []Candidate{candidate(r, positions, 0, len(r))}
}

// candidate slices runes [start, end) and the matching positions. The
// position range is clamped to what the renderer actually reported.
func candidate(r []rune, positions []pdftext.GlyphPosition, start, end int) Candidate {
	return Candidate{
		Text:      string(r[start:end]),
		Positions: clampSlice(positions, start, end),
	}
}

func clampSlice(positions []pdftext.GlyphPosition, start, end int) []pdftext.GlyphPosition {
	end = min(end, len(positions))
	start = min(start, end)
	return positions[start:end]
}

func allDigits(r []rune) bool {
	for _, c := range r {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(r) > 0
}

func indexRune(r []rune, want rune) int {
	for i, c := range r {
		if c == want {
			return i
		}
	}
	return -1
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
