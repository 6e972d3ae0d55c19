// Package pipeline runs one extraction from bundled inputs to the finished
// line set, its CSV and diagnostics.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/dgallion1/linecolors/internal/config"
	"github.com/dgallion1/linecolors/internal/feed"
	"github.com/dgallion1/linecolors/internal/legend"
	"github.com/dgallion1/linecolors/internal/pdftext"
	"github.com/dgallion1/linecolors/internal/report"
	"github.com/dgallion1/linecolors/internal/resource"
	"github.com/dgallion1/linecolors/internal/transit"
)

// Phase names a step of a run, used to label errors and log lines.
type Phase string

const (
	PhaseExtract  Phase = "extracting"
	PhaseFeed     Phase = "loading_feed"
	PhaseAssemble Phase = "assembling"
	PhaseReport   Phase = "reporting"
)

// Result is the immutable outcome of a run.
type Result struct {
	Network     string
	Lines       []transit.Line
	CSV         []byte
	Rows        int
	Diagnostics report.Diagnostics
	Stats       legend.Stats
	Summary     []byte // Markdown
}

// Runner executes runs against one resource set.
type Runner struct {
	cfg config.Config
	res *resource.Loader
	log *slog.Logger
}

func NewRunner(cfg config.Config, res *resource.Loader, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, res: res, log: log}
}

// Run executes every phase in order. Any error aborts the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	// Phase 1: Extract legend colours
	extractor := legend.NewExtractor(r.log)
	for _, name := range r.cfg.LegendPDFs {
		if err := r.extract(ctx, extractor, name); err != nil {
			return nil, fmt.Errorf("%s: %w", PhaseExtract, err)
		}
	}
	stats := extractor.Stats()
	r.log.Info("extraction complete", "stats", stats)

	// Phase 2: Load feed tables
	in, err := r.loadFeed()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PhaseFeed, err)
	}
	joiner := feed.NewJoiner(in.agencies, in.routes, regexp.MustCompile(r.cfg.RouteIDPattern))
	r.log.Info("network resolved", "network", r.cfg.NetworkName, "agencies", len(joiner.Agencies()), "routes", len(joiner.Routes()))

	// Phase 3: Assemble
	set, err := transit.Assemble(extractor.Colors().Entries(), in.manual, joiner, r.log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PhaseAssemble, err)
	}
	lines := set.Lines()

	// Phase 4: Report
	var csv bytes.Buffer
	rows, err := report.WriteCSV(&csv, lines, report.Style{OperatorTag: r.cfg.OperatorTag, Shape: r.cfg.Shape})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PhaseReport, err)
	}
	diag := report.Diagnose(lines, in.network)

	r.log.Info("run complete",
		"lines", len(lines),
		"rows", rows,
		"unmatched", len(diag.Unmatched),
		"missing", len(diag.Missing),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Network:     r.cfg.NetworkName,
		Lines:       lines,
		CSV:         csv.Bytes(),
		Rows:        rows,
		Diagnostics: diag,
		Stats:       stats,
		Summary:     report.Summary(r.cfg.NetworkName, lines, diag, stats),
	}, nil
}

func (r *Runner) extract(ctx context.Context, e *legend.Extractor, name string) error {
	data, err := r.res.ReadAll(name)
	if err != nil {
		return err
	}
	doc, err := pdftext.Open(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.log.Debug("legend opened", "document", name, "pages", doc.NumPages(), "bytes", len(data))
	return e.ExtractDocument(ctx, name, doc)
}

type feedInput struct {
	agencies []feed.Agency
	routes   []feed.Route
	manual   []feed.ManualColor
	network  []feed.Route
}

func (r *Runner) loadFeed() (*feedInput, error) {
	var in feedInput
	var err error
	if in.agencies, err = parseResource(r.res, r.cfg.AgencyFile, feed.ParseAgencies); err != nil {
		return nil, err
	}
	if in.routes, err = parseResource(r.res, r.cfg.RoutesFile, feed.ParseRoutes); err != nil {
		return nil, err
	}
	if in.manual, err = parseResource(r.res, r.cfg.ManualColorsFile, feed.ParseManualColors); err != nil {
		return nil, err
	}
	if in.network, err = parseResource(r.res, r.cfg.NetworkRoutesFile, feed.ParseRoutes); err != nil {
		return nil, err
	}
	r.log.Info("feed loaded",
		"agencies", len(in.agencies),
		"routes", len(in.routes),
		"manual", len(in.manual),
		"network_routes", len(in.network),
	)
	return &in, nil
}
