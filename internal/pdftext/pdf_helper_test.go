package pdftext

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildPDF assembles a minimal single-font document with one page per
// content stream.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	return buildPDFWith(t, "", nil, pages...)
}

// buildPDFWith is buildPDF with extra entries in every page's resource
// dictionary and extra objects, numbered from 4 in the order given.
func buildPDFWith(t *testing.T, resources string, objects []string, pages ...string) []byte {
	t.Helper()

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	objs = append(objs, objects...)
	var kids []string
	for _, content := range pages {
		pageNum := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 600 800] /Resources << /Font << /F1 3 0 R >> %s >> /Contents %d 0 R >>", resources, pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

// streamObject formats a stream object with an unfiltered body.
func streamObject(dict, body string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(body), body)
}

type recorder struct {
	colors map[GlyphPosition]Color
	order  []GlyphPosition
	runs   []Run
}

func newRecorder() *recorder {
	return &recorder{colors: make(map[GlyphPosition]Color)}
}

func (r *recorder) HandleGlyph(pos GlyphPosition, fill Color) {
	r.colors[pos] = fill
	r.order = append(r.order, pos)
}

func (r *recorder) HandleRun(run Run) {
	r.runs = append(r.runs, run)
}

func (r *recorder) runTexts() []string {
	out := make([]string, len(r.runs))
	for i, run := range r.runs {
		out[i] = run.Text
	}
	return out
}
