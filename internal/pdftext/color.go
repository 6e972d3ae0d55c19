package pdftext

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB fill colour as seen in the graphics state.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Hex formats the colour as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// ParseHex parses a "#rrggbb" (or "#rgb") string.
func ParseHex(s string) (Color, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	r, g, b := cf.RGB255()
	return Color{r, g, b}, nil
}

func grayColor(v float64) Color {
	c := channel(v)
	return Color{c, c, c}
}

func rgbColor(r, g, b float64) Color {
	return Color{channel(r), channel(g), channel(b)}
}

// cmykColor uses the naive device conversion, no ICC profile.
func cmykColor(c, m, y, k float64) Color {
	return Color{
		channel((1 - clamp01(c)) * (1 - clamp01(k))),
		channel((1 - clamp01(m)) * (1 - clamp01(k))),
		channel((1 - clamp01(y)) * (1 - clamp01(k))),
	}
}

// colorFromComponents picks the device space from the operand count. It
// serves sc/scn when the selected colour space is unknown.
func colorFromComponents(v []float64) (Color, bool) {
	switch len(v) {
	case 1:
		return grayColor(v[0]), true
	case 3:
		return rgbColor(v[0], v[1], v[2]), true
	case 4:
		return cmykColor(v[0], v[1], v[2], v[3]), true
	}
	return Color{}, false
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
