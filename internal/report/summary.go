package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/linecolors/internal/legend"
	"github.com/dgallion1/linecolors/internal/transit"
)

// Summary renders a Markdown overview of a finished run.
func Summary(network string, lines []transit.Line, d Diagnostics, stats legend.Stats) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s line colours\n\n", network)

	joined := len(lines) - len(d.Unmatched)
	fmt.Fprintf(&b, "- Lines: %d\n", len(lines))
	fmt.Fprintf(&b, "- Written: %d\n", joined)
	fmt.Fprintf(&b, "- Unmatched: %d\n", len(d.Unmatched))
	fmt.Fprintf(&b, "- Missing: %d\n\n", len(d.Missing))

	b.WriteString("## Extraction\n\n")
	fmt.Fprintf(&b, "- Documents: %d\n", stats.Documents)
	fmt.Fprintf(&b, "- Runs starting a line: %d of %d\n", stats.LineStartRuns, stats.Runs)
	fmt.Fprintf(&b, "- Candidates: %d, accepted %d\n", stats.Candidates, stats.Accepted)
	reasons := make([]string, 0, len(stats.Rejected))
	for r := range stats.Rejected {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(&b, "- Rejected (%s): %d\n", r, stats.Rejected[legend.Reason(r)])
	}
	b.WriteString("\n")

	b.WriteString("## Lines\n\n")
	b.WriteString("| Line | Background | Text | Border | Agency | Source |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(l.ID), code(l.BackgroundColor), code(l.TextColor), code(l.BorderColor), cell(l.AgencyName()), l.Source)
	}

	if len(d.Missing) > 0 {
		b.WriteString("\n## Missing\n\n")
		for _, name := range d.Missing {
			fmt.Fprintf(&b, "- %s\n", cell(name))
		}
	}
	return b.Bytes()
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

// cell keeps a value from breaking the table layout.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "\r", "").Replace(s)
}
