// Package transit assembles the final, agency annotated set of styled lines.
package transit

import "github.com/dgallion1/linecolors/internal/feed"

// Source records where a line's colours came from.
type Source string

const (
	SourcePDF Source = "PDF"
	SourceCSV Source = "CSV"
)

// DefaultTextColor is used for lines whose colour came from the legend.
const DefaultTextColor = "#ffffff"

// Line is one styled transit line.
type Line struct {
	ID              string       `json:"line"`
	BackgroundColor string       `json:"background_color"`
	TextColor       string       `json:"text_color"`
	BorderColor     string       `json:"border_color"`
	Agency          *feed.Agency `json:"agency,omitempty"`
	Source          Source       `json:"source"`
}

// Joined reports whether an operating agency was found for the line.
func (l Line) Joined() bool {
	return l.Agency != nil
}

func (l Line) AgencyID() string {
	if l.Agency == nil {
		return ""
	}
	return l.Agency.ID
}

func (l Line) AgencyName() string {
	if l.Agency == nil {
		return ""
	}
	return l.Agency.Name
}
