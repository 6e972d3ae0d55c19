// Package legend recovers transit line identifiers and their colours from
// the text of a map legend.
package legend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/linecolors/internal/pdftext"
)

// Walker traverses a document, reporting glyphs and runs to a handler.
type Walker interface {
	Walk(ctx context.Context, h pdftext.Handler) error
}

// Extractor is the state of one extraction pass. It owns the colour tracker
// for the document being walked and the colour map shared by all documents
// of the pass.
type Extractor struct {
	tracker *ColorTracker
	colors  *ColorMap
	stats   Stats
	log     *slog.Logger

	// err holds the first fatal error raised inside a callback.
	err error
}

func NewExtractor(log *slog.Logger) *Extractor {
	return &Extractor{
		tracker: NewColorTracker(),
		colors:  NewColorMap(),
		log:     log,
	}
}

// ExtractDocument walks one document and adds its lines to the colour map.
// Lines already found in an earlier document keep their first colour.
func (e *Extractor) ExtractDocument(ctx context.Context, name string, doc Walker) error {
	e.tracker.Reset()
	e.err = nil
	before := e.colors.Len()

	if err := doc.Walk(ctx, e); err != nil {
		return fmt.Errorf("walk %s: %w", name, err)
	}
	if e.err != nil {
		return fmt.Errorf("extract %s: %w", name, e.err)
	}

	e.stats.Documents++
	e.log.Info("legend extracted", "document", name, "new_lines", e.colors.Len()-before, "total_lines", e.colors.Len())
	return nil
}

// HandleGlyph implements pdftext.Handler.
func (e *Extractor) HandleGlyph(pos pdftext.GlyphPosition, fill pdftext.Color) {
	e.stats.Glyphs++
	e.tracker.Record(pos, fill)
}

// HandleRun implements pdftext.Handler. Only the first run of a visual line
// that contains a digit is considered, which keeps running text out.
func (e *Extractor) HandleRun(run pdftext.Run) {
	if e.err != nil {
		return
	}
	e.stats.Runs++
	if !run.NewLine || !containsDigit(run.Text) {
		return
	}
	e.stats.LineStartRuns++

	for _, c := range Segment(run.Text, run.Positions) {
		if err := e.consider(c); err != nil {
			e.err = err
			return
		}
	}
}

func (e *Extractor) consider(c Candidate) error {
	e.stats.Candidates++

	line, reason := checkCandidate(c.Text, e.colors)
	if reason != "" {
		e.stats.reject(reason)
		return nil
	}
	if len(c.Positions) == 0 {
		e.stats.reject(ReasonNoPosition)
		return nil
	}

	color, err := e.tracker.ColorAt(c.Positions[0])
	if err != nil {
		return fmt.Errorf("candidate %q: %w", c.Text, err)
	}
	if IsIgnoredColor(color) {
		e.stats.reject(ReasonIgnoredColor)
		return nil
	}

	e.colors.Add(line, color)
	e.stats.Accepted++
	e.log.Debug("line colour", "line", line, "color", color.Hex())
	return nil
}

// Colors returns the accumulated colour map.
func (e *Extractor) Colors() *ColorMap {
	return e.colors
}

// Stats returns a snapshot of the extraction counters.
func (e *Extractor) Stats() Stats {
	return e.stats.Snapshot()
}
