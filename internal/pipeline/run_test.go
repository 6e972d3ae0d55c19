package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/linecolors/internal/config"
	"github.com/dgallion1/linecolors/internal/feed"
	"github.com/dgallion1/linecolors/internal/resource"
)

// legendPDF builds a one page document showing each text on its own line
// in the given fill colour.
func legendPDF(rows ...[2]string) []byte {
	var content strings.Builder
	y := 700
	for _, r := range rows {
		fmt.Fprintf(&content, "BT /F1 10 Tf %s rg 50 %d Td (%s) Tj ET\n", r[1], y, r[0])
		y -= 20
	}
	stream := content.String()

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [4 0 R] /Count 1 >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 600 800] /Resources << /Font << /F1 3 0 R >> >> /Contents 5 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}
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

func testResources() fstest.MapFS {
	return fstest.MapFS{
		"legend.pdf": {Data: legendPDF(
			[2]string{"401", "1 0 0"},
			[2]string{"672", "0 0 1"},
			[2]string{"905", "0.5294 0.5294 0.5294"},
			[2]string{"58", "0 1 0"},
		)},
		"agency.txt": {Data: []byte("agency_id,agency_name\n1,RVO\n")},
		"routes.txt": {Data: []byte("route_id,agency_id,route_short_name\n" +
			"de:mvv:401|Regional,1,401\n" +
			"de:mvv:401V|Regional,1,401V\n")},
		"colors_manual.csv": {Data: []byte("route_short_name,background_color,text_color,border_color\n" +
			"# curated\n" +
			"X30,#112233,#000000,\n")},
		"mvv_routes.txt": {Data: []byte("route_id,agency_id,route_short_name\n" +
			"a,1,401\n" +
			"b,1,S2\n" +
			"c,1,500\n")},
	}
}

func testConfig() config.Config {
	cfg := config.Load()
	cfg.LegendPDFs = []string{"legend.pdf"}
	return cfg
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_EndToEnd(t *testing.T) {
	r := NewRunner(testConfig(), resource.NewFSLoader(testResources()), quietLog())
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []string
	for _, l := range res.Lines {
		ids = append(ids, l.ID)
	}
	if got := strings.Join(ids, " "); got != "401 401V 672 X30" {
		t.Fatalf("unexpected lines: %s", got)
	}

	wantCSV := "mvv-regional-bus,401,,,#ff0000,#ffffff,,rectangle,,1,RVO\r\n" +
		"mvv-regional-bus,401V,,,#ff0000,#ffffff,,rectangle,,1,RVO\r\n"
	if string(res.CSV) != wantCSV {
		t.Errorf("unexpected csv:\n%q\nwant\n%q", res.CSV, wantCSV)
	}
	if res.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", res.Rows)
	}

	if len(res.Diagnostics.Unmatched) != 2 {
		t.Errorf("expected 672 and X30 unmatched, got %+v", res.Diagnostics.Unmatched)
	}
	if len(res.Diagnostics.Missing) != 1 || res.Diagnostics.Missing[0] != "500" {
		t.Errorf("unexpected missing: %v", res.Diagnostics.Missing)
	}
	if res.Stats.Documents != 1 || res.Stats.Accepted != 2 {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
	if !bytes.Contains(res.Summary, []byte("# MVV line colours")) {
		t.Errorf("summary missing title:\n%s", res.Summary)
	}
}

func TestRun_MissingLegend(t *testing.T) {
	fsys := testResources()
	delete(fsys, "legend.pdf")
	_, err := NewRunner(testConfig(), resource.NewFSLoader(fsys), quietLog()).Run(context.Background())
	if !errors.Is(err, resource.ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), string(PhaseExtract)) {
		t.Errorf("expected error labelled with phase, got %v", err)
	}
}

func TestRun_MissingFeedTable(t *testing.T) {
	fsys := testResources()
	delete(fsys, "mvv_routes.txt")
	_, err := NewRunner(testConfig(), resource.NewFSLoader(fsys), quietLog()).Run(context.Background())
	if !errors.Is(err, resource.ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
}

func TestRun_MalformedRow(t *testing.T) {
	fsys := testResources()
	fsys["agency.txt"] = &fstest.MapFile{Data: []byte("agency_id\n1\n")}
	_, err := NewRunner(testConfig(), resource.NewFSLoader(fsys), quietLog()).Run(context.Background())
	if !errors.Is(err, feed.ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(testConfig(), resource.NewFSLoader(testResources()), quietLog()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
