package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphRow(text string, x, y float64, first GlyphPosition) []Glyph {
	var out []Glyph
	for i, r := range []rune(text) {
		out = append(out, Glyph{
			Pos:    first + GlyphPosition(i),
			Text:   string(r),
			X:      x + float64(i)*5,
			Y:      y,
			Width:  5,
			Size:   10,
			SpaceW: 2.5,
		})
	}
	return out
}

func TestLayoutRuns_Empty(t *testing.T) {
	assert.Empty(t, layoutRuns(nil, 1))
}

func TestLayoutRuns_SmallBaselineShiftStaysOnLine(t *testing.T) {
	glyphs := append(glyphRow("AB", 0, 100, 0), glyphRow("C", 10, 102, 2)...)
	runs := layoutRuns(glyphs, 1)
	require.Len(t, runs, 1)
	assert.Equal(t, "ABC", runs[0].Text)
	assert.Equal(t, []GlyphPosition{0, 1, 2}, runs[0].Positions)
}

func TestLayoutRuns_GapAfterSpaceDoesNotSplit(t *testing.T) {
	glyphs := append(glyphRow("A ", 0, 100, 0), glyphRow("B", 50, 100, 2)...)
	runs := layoutRuns(glyphs, 1)
	require.Len(t, runs, 1)
	assert.Equal(t, "A B", runs[0].Text)
}

func TestLayoutRuns_NewLineOnlyOnFirstRun(t *testing.T) {
	glyphs := append(glyphRow("12", 0, 100, 0), glyphRow("34", 50, 100, 2)...)
	glyphs = append(glyphs, glyphRow("56", 0, 80, 4)...)
	runs := layoutRuns(glyphs, 3)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].NewLine)
	assert.False(t, runs[1].NewLine)
	assert.True(t, runs[2].NewLine)
	for _, r := range runs {
		assert.Equal(t, 3, r.Page)
	}
}

func TestLayoutRuns_ComposesDecomposedText(t *testing.T) {
	// "O" followed by a combining diaeresis composes to one rune.
	glyphs := glyphRow("AO\u0308", 0, 100, 0)
	runs := layoutRuns(glyphs, 1)
	require.Len(t, runs, 1)
	assert.Equal(t, "A\u00d6", runs[0].Text)
	assert.Equal(t, []GlyphPosition{0, 1}, runs[0].Positions)
}

func TestLayoutRuns_RunesMatchPositions(t *testing.T) {
	// The mark after "q" has no precomposed form and keeps its own position.
	glyphs := glyphRow("O\u0308Bq\u0308", 0, 100, 0)
	runs := layoutRuns(glyphs, 1)
	require.Len(t, runs, 1)

	runes := []rune(runs[0].Text)
	require.Len(t, runes, len(runs[0].Positions))
	assert.Equal(t, []rune{'\u00d6', 'B', 'q', '\u0308'}, runes)
	assert.Equal(t, []GlyphPosition{0, 2, 3, 4}, runs[0].Positions)
}

func TestOverlaps_ZeroHeight(t *testing.T) {
	assert.True(t, overlaps(10, 0, 10.5, 0))
	assert.False(t, overlaps(10, 0, 12, 0))
}
