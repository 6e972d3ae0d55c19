package legend

import (
	"context"
	"errors"
	"testing"

	"github.com/dgallion1/linecolors/internal/pdftext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ConcatenatedLines(t *testing.T) {
	doc := (&fakeDoc{}).run("671533", true, red, red, red, blue)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))

	c, ok := e.Colors().Get("671")
	require.True(t, ok)
	assert.Equal(t, red, c)
	c, ok = e.Colors().Get("533")
	require.True(t, ok)
	assert.Equal(t, blue, c)
}

func TestExtractor_OnlyLineStartsWithDigits(t *testing.T) {
	doc := (&fakeDoc{}).
		run("901", false, red).
		run("VLKA", true, red).
		run("902", true, blue)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))

	assert.Equal(t, []Entry{{Line: "902", Color: blue}}, e.Colors().Entries())
	st := e.Stats()
	assert.Equal(t, 3, st.Runs)
	assert.Equal(t, 1, st.LineStartRuns)
}

func TestExtractor_GreyAndThresholdRejected(t *testing.T) {
	// (135) is a town line, (200) is not above the threshold.
	doc := (&fakeDoc{}).run("(135)(200)", true, grey, grey, grey, grey, grey, other)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))

	assert.Equal(t, 0, e.Colors().Len())
	assert.Equal(t, 2, e.Stats().Rejected[ReasonInvalid])
}

func TestExtractor_IgnoredColours(t *testing.T) {
	doc := (&fakeDoc{}).
		run("(678)(679)", true, grey, grey, grey, grey, grey, pdftext.White).
		run("680", true, red)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))

	assert.Equal(t, []Entry{{Line: "680", Color: red}}, e.Colors().Entries())
	assert.Equal(t, 2, e.Stats().Rejected[ReasonIgnoredColor])
	for _, entry := range e.Colors().Entries() {
		assert.False(t, IsIgnoredColor(entry.Color))
	}
}

func TestExtractor_FirstOccurrenceWins(t *testing.T) {
	doc := (&fakeDoc{}).
		run("(701)", true, red).
		run("701", true, blue)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))

	c, _ := e.Colors().Get("701")
	assert.Equal(t, red, c)
	assert.Equal(t, 1, e.Stats().Rejected[ReasonDuplicate])
}

func TestExtractor_SharedMapAcrossDocuments(t *testing.T) {
	first := (&fakeDoc{}).run("323", true, red)
	second := (&fakeDoc{}).run("323", true, blue).run("978", true, blue)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "a.pdf", first))
	require.NoError(t, e.ExtractDocument(context.Background(), "b.pdf", second))

	assert.Equal(t, []Entry{{Line: "323", Color: red}, {Line: "978", Color: blue}}, e.Colors().Entries())
	assert.Equal(t, 2, e.Stats().Documents)
}

func TestExtractor_TrackerResetBetweenDocuments(t *testing.T) {
	first := (&fakeDoc{}).run("401", true, red)
	// The second document reuses position 0 but never reports a glyph for it.
	second := &fakeDoc{runs: []pdftext.Run{{Text: "402", Positions: []pdftext.GlyphPosition{0}, NewLine: true}}}

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "a.pdf", first))
	err := e.ExtractDocument(context.Background(), "b.pdf", second)
	assert.ErrorIs(t, err, ErrMissingPosition)
	assert.False(t, e.Colors().Contains("402"))
}

func TestExtractor_NoPositions(t *testing.T) {
	doc := &fakeDoc{runs: []pdftext.Run{{Text: "403", NewLine: true}}}

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))
	assert.Equal(t, 1, e.Stats().Rejected[ReasonNoPosition])
}

func TestExtractor_WalkError(t *testing.T) {
	boom := errors.New("boom")
	doc := &fakeDoc{err: boom}

	e := NewExtractor(discardLogger())
	err := e.ExtractDocument(context.Background(), "legend.pdf", doc)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, e.Stats().Documents)
}

func TestExtractor_PrefixedLines(t *testing.T) {
	doc := (&fakeDoc{}).run("DGF1", true, red).run("OVG 2", true, blue)

	e := NewExtractor(discardLogger())
	require.NoError(t, e.ExtractDocument(context.Background(), "legend.pdf", doc))

	assert.True(t, e.Colors().Contains("DGF1"))
	assert.False(t, e.Colors().Contains("OVG 2"))
}

func TestStats_SnapshotIsCopy(t *testing.T) {
	var s Stats
	s.reject(ReasonShape)
	snap := s.Snapshot()
	s.reject(ReasonShape)
	assert.Equal(t, 1, snap.Rejected[ReasonShape])
}
