package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/linecolors/internal/transit"
	"github.com/fumiama/go-docx"
)

// swatch is drawn in each line's background colour.
const swatch = "\u25a0 "

// WriteDOCX writes the run summary as a Word document: counts, one
// paragraph per line with a colour swatch, then the missing routes.
func WriteDOCX(w io.Writer, network string, lines []transit.Line, d Diagnostics) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(network + " line colours").Bold().Size("36")
	doc.AddParagraph().AddText(fmt.Sprintf("Lines: %d, written: %d, unmatched: %d, missing: %d",
		len(lines), len(lines)-len(d.Unmatched), len(d.Unmatched), len(d.Missing)))

	for _, l := range lines {
		p := doc.AddParagraph()
		if hex := strings.TrimPrefix(l.BackgroundColor, "#"); len(hex) == 6 {
			p.AddText(swatch).Color(hex)
		}
		text := fmt.Sprintf("%s  %s / %s", l.ID, l.BackgroundColor, l.TextColor)
		if l.Joined() {
			text += "  " + l.AgencyName()
		} else {
			text += "  (no agency)"
		}
		p.AddText(text)
	}

	if len(d.Missing) > 0 {
		doc.AddParagraph().AddText("Missing").Bold()
		doc.AddParagraph().AddText(strings.Join(d.Missing, ", "))
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
