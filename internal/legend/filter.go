package legend

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/linecolors/internal/pdftext"
)

// Reason says why a candidate was dropped.
type Reason string

const (
	ReasonShape        Reason = "shape"
	ReasonWhitespace   Reason = "whitespace"
	ReasonDuplicate    Reason = "duplicate"
	ReasonInvalid      Reason = "invalid"
	ReasonIgnoredColor Reason = "ignored_color"
	ReasonNoPosition   Reason = "no_position"
)

// Town bus lines are numbered up to this value and are not part of the
// regional legend.
const maxTownLine = 200

// Prefixes of regional bus lines that are not purely numeric.
var busPrefixes = []string{"AÖ", "DGF", "VLK", "OVG"}

// White text and the #878787 grey of decorative lines never carry a line colour.
var ignoredColors = []pdftext.Color{
	{R: 135, G: 135, B: 135},
	pdftext.White,
}

var parenStripper = strings.NewReplacer("(", "", ")", "")

// checkCandidate runs the text-only filters and returns the bare line
// identifier, or the reason the candidate is dropped.
func checkCandidate(raw string, seen *ColorMap) (string, Reason) {
	if !plausibleShape(raw) {
		return "", ReasonShape
	}
	line := parenStripper.Replace(raw)
	if strings.IndexFunc(line, unicode.IsSpace) >= 0 {
		return "", ReasonWhitespace
	}
	if seen.Contains(line) {
		return "", ReasonDuplicate
	}
	if !isRegionalLine(line) {
		return "", ReasonInvalid
	}
	return line, ""
}

// plausibleShape keeps 3-4 character tokens, prefixed bus lines and anything
// touching a parenthesis.
func plausibleShape(raw string) bool {
	n := utf8.RuneCountInString(raw)
	return (n >= 3 && n <= 4) ||
		hasBusPrefix(raw) ||
		strings.HasPrefix(raw, "(") ||
		strings.HasSuffix(raw, ")")
}

func isRegionalLine(line string) bool {
	if n, err := strconv.Atoi(line); err == nil && n > maxTownLine {
		return true
	}
	return hasBusPrefix(line)
}

func hasBusPrefix(s string) bool {
	for _, p := range busPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// IsIgnoredColor reports whether c is one of the decorative colours that
// never identify a line.
func IsIgnoredColor(c pdftext.Color) bool {
	for _, ic := range ignoredColors {
		if c == ic {
			return true
		}
	}
	return false
}
