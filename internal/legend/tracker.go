package legend

import (
	"errors"
	"fmt"

	"github.com/dgallion1/linecolors/internal/pdftext"
)

// ErrMissingPosition means a colour was requested for a glyph that was never
// recorded. It indicates a traversal defect, not bad input.
var ErrMissingPosition = errors.New("glyph position not recorded")

// ColorTracker remembers the fill colour active when each glyph was drawn.
// It is scoped to one document traversal; Reset it between documents.
type ColorTracker struct {
	colors map[pdftext.GlyphPosition]pdftext.Color
}

func NewColorTracker() *ColorTracker {
	return &ColorTracker{colors: make(map[pdftext.GlyphPosition]pdftext.Color)}
}

func (t *ColorTracker) Record(pos pdftext.GlyphPosition, c pdftext.Color) {
	t.colors[pos] = c
}

func (t *ColorTracker) ColorAt(pos pdftext.GlyphPosition) (pdftext.Color, error) {
	c, ok := t.colors[pos]
	if !ok {
		return pdftext.Color{}, fmt.Errorf("%w: %d", ErrMissingPosition, pos)
	}
	return c, nil
}

func (t *ColorTracker) Len() int {
	return len(t.colors)
}

func (t *ColorTracker) Reset() {
	clear(t.colors)
}
