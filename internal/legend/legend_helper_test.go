package legend

import (
	"context"
	"io"
	"log/slog"

	"github.com/dgallion1/linecolors/internal/pdftext"
)

type glyph struct {
	pos   pdftext.GlyphPosition
	color pdftext.Color
}

// fakeDoc replays glyphs and runs the way pdftext.Document does for one page.
type fakeDoc struct {
	next   pdftext.GlyphPosition
	glyphs []glyph
	runs   []pdftext.Run
	err    error
}

// run appends a run whose i-th glyph has colors[i]; the last colour repeats.
func (d *fakeDoc) run(text string, newLine bool, colors ...pdftext.Color) *fakeDoc {
	var pos []pdftext.GlyphPosition
	for i := range []rune(text) {
		c := colors[min(i, len(colors)-1)]
		d.glyphs = append(d.glyphs, glyph{pos: d.next, color: c})
		pos = append(pos, d.next)
		d.next++
	}
	d.runs = append(d.runs, pdftext.Run{Text: text, Positions: pos, NewLine: newLine, Page: 1})
	return d
}

func (d *fakeDoc) Walk(ctx context.Context, h pdftext.Handler) error {
	for _, g := range d.glyphs {
		h.HandleGlyph(g.pos, g.color)
	}
	for _, r := range d.runs {
		h.HandleRun(r)
	}
	return d.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	red   = pdftext.Color{R: 200, G: 0, B: 0}
	blue  = pdftext.Color{R: 0, G: 0, B: 200}
	grey  = pdftext.Color{R: 135, G: 135, B: 135}
	other = pdftext.Color{R: 10, G: 20, B: 30}
)
