package pdftext

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// spacingTolerance is the fraction of a space width that a horizontal gap
// must exceed before the glyphs on either side are split into two runs.
const spacingTolerance = 0.5

// layoutRuns groups glyphs, in content order, into visual lines and splits
// each line into runs at horizontal gaps. A gap directly after a whitespace
// glyph does not split, so real spaces stay inside their run.
func layoutRuns(glyphs []Glyph, page int) []Run {
	var (
		runs    []Run
		chars   []string // one entry per position
		pos     []GlyphPosition
		newLine = true
		lineY   float64
		lineH   float64
		prev    *Glyph
	)

	flush := func() {
		if len(pos) == 0 {
			return
		}
		runs = append(runs, Run{
			Text:      strings.Join(chars, ""),
			Positions: pos,
			NewLine:   newLine,
			Page:      page,
		})
		chars = nil
		pos = nil
		newLine = false
	}

	for i := range glyphs {
		gl := &glyphs[i]
		switch {
		case prev == nil:
			lineY, lineH = gl.Y, gl.Size
		case !overlaps(lineY, lineH, gl.Y, gl.Size):
			flush()
			newLine = true
			lineY, lineH = gl.Y, gl.Size
		default:
			gap := gl.X - (prev.X + prev.Width)
			if gap > spacingTolerance*prev.SpaceW && !isSpace(prev.Text) {
				flush()
			}
			lineH = math.Max(lineH, gl.Size)
		}
		// A combining mark that composes with the previous glyph is folded
		// into it and contributes no position of its own.
		if n := len(chars); n > 0 && isMark(gl.Text) {
			if c := norm.NFC.String(chars[n-1] + gl.Text); utf8.RuneCountInString(c) == 1 {
				chars[n-1] = c
				prev = gl
				continue
			}
		}
		chars = append(chars, gl.Text)
		pos = append(pos, gl.Pos)
		prev = gl
	}
	flush()
	return runs
}

// overlaps reports whether two baselines with the given heights share
// vertical extent. Zero heights fall back to a one unit tolerance.
func overlaps(y1, h1, y2, h2 float64) bool {
	tol := math.Max(h1, h2) / 2
	if tol <= 0 {
		tol = 1
	}
	return math.Abs(y1-y2) <= tol
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return s != ""
}

func isMark(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && size == len(s) && unicode.Is(unicode.Mn, r)
}
