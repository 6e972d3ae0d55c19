package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/linecolors/internal/feed"
	"github.com/dgallion1/linecolors/internal/transit"
)

// railPrefix marks suburban rail routes, which never appear in the legend.
const railPrefix = "S"

// Diagnostics lists the discrepancies between the assembled lines and the
// network's route table.
type Diagnostics struct {
	// Unmatched lines have no operating agency and were left out of the CSV.
	Unmatched []transit.Line `json:"unmatched"`
	// Missing holds route short names the network runs but no line covers,
	// one entry per route row.
	Missing []string `json:"missing"`
}

// Diagnose compares lines with the network's route list.
func Diagnose(lines []transit.Line, networkRoutes []feed.Route) Diagnostics {
	d := Diagnostics{Unmatched: []transit.Line{}, Missing: []string{}}
	known := make(map[string]bool, len(lines))
	for _, l := range lines {
		known[l.ID] = true
		if !l.Joined() {
			d.Unmatched = append(d.Unmatched, l)
		}
	}
	for _, r := range networkRoutes {
		if strings.HasPrefix(r.ShortName, railPrefix) || known[r.ShortName] {
			continue
		}
		d.Missing = append(d.Missing, r.ShortName)
	}
	return d
}

// Print writes the console warnings for network, unmatched lines first.
func (d Diagnostics) Print(w io.Writer, network string) error {
	for _, l := range d.Unmatched {
		if _, err := fmt.Fprintf(w, "No %s operated line found for route id %s. (Source: %s)\n", network, l.ID, l.Source); err != nil {
			return err
		}
	}
	for _, name := range d.Missing {
		if _, err := fmt.Fprintf(w, "Missing %s line: %s\n", network, name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
