// Package report writes the styling CSV consumed by the map renderer and
// the human readable diagnostics of a run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/linecolors/internal/transit"
)

const (
	delimiter       = ','
	escape          = '\\'
	recordSeparator = "\r\n"
)

// Style holds the fixed columns of every row.
type Style struct {
	OperatorTag string
	Shape       string
}

// WriteCSV writes one row per joined line, in order. Unjoined lines are left
// out. There is no header row and fields are never quoted; the delimiter,
// the escape character and line breaks are backslash escaped instead.
func WriteCSV(w io.Writer, lines []transit.Line, style Style) (int, error) {
	bw := bufio.NewWriter(w)
	rows := 0
	for _, l := range lines {
		if !l.Joined() {
			continue
		}
		writeRecord(bw, Record(l, style))
		rows++
	}
	if err := bw.Flush(); err != nil {
		return rows, fmt.Errorf("write csv: %w", err)
	}
	return rows, nil
}

// Record returns the fields of one output row.
func Record(l transit.Line, style Style) []string {
	return []string{
		style.OperatorTag,
		l.ID,
		"",
		"",
		l.BackgroundColor,
		l.TextColor,
		l.BorderColor,
		style.Shape,
		"",
		l.AgencyID(),
		l.AgencyName(),
	}
}

func writeRecord(bw *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteByte(delimiter)
		}
		bw.WriteString(escapeField(f))
	}
	bw.WriteString(recordSeparator)
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\\\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\r':
			b.WriteRune(escape)
			b.WriteByte('r')
		case '\n':
			b.WriteRune(escape)
			b.WriteByte('n')
		case delimiter, escape:
			b.WriteRune(escape)
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
