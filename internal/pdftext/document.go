// Package pdftext walks the text of a PDF document and reports every glyph
// together with the fill colour it was drawn with, then the text runs those
// glyphs form on each page.
package pdftext

import (
	"bytes"
	"context"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// GlyphPosition identifies one rendered character instance within a
// document. It carries no content and is only meaningful as a lookup key.
type GlyphPosition uint64

// Run is a string emitted as one unit, paired with the positions of its
// glyphs. Text holds exactly one rune per position. A combining mark that
// composes with the glyph before it is folded into that glyph's rune.
type Run struct {
	Text      string
	Positions []GlyphPosition
	NewLine   bool // first run of its visual line
	Page      int
}

// Handler receives traversal callbacks. On each page every HandleGlyph call
// happens before the first HandleRun call for that page.
type Handler interface {
	HandleGlyph(pos GlyphPosition, fill Color)
	HandleRun(run Run)
}

// Document is an opened PDF.
type Document struct {
	r *pdflib.Reader
}

// Open parses a PDF held in memory.
func Open(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open pdf: %v", r)
		}
	}()
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &Document{r: r}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.r.NumPage()
}

// Walk traverses all pages in order, top of the content stream to bottom.
func (d *Document) Walk(ctx context.Context, h Handler) error {
	var next GlyphPosition
	for i := 1; i <= d.r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := d.r.Page(i)
		if page.V.IsNull() {
			continue
		}
		glyphs, err := pageGlyphs(page, next)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		if len(glyphs) > 0 {
			next = glyphs[len(glyphs)-1].Pos + 1
		}

		for _, g := range glyphs {
			h.HandleGlyph(g.Pos, g.Fill)
		}
		for _, run := range layoutRuns(glyphs, i) {
			h.HandleRun(run)
		}
	}
	return nil
}

// pageGlyphs interprets one page. The PDF library panics on malformed
// content streams, which is turned into an error here.
func pageGlyphs(page pdflib.Page, first GlyphPosition) (glyphs []Glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpret content: %v", r)
		}
	}()
	in := newInterpreter(first)
	in.page(page)
	return in.glyphs, nil
}
