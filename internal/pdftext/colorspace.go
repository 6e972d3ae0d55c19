package pdftext

import (
	"io"
	"math"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/lucasb-eyer/go-colorful"
)

// maxColorSpaceDepth bounds named and nested colour space resolution.
const maxColorSpaceDepth = 4

// colorSpace converts fill operands to an RGB colour.
type colorSpace interface {
	// components is the operand count sc/scn takes. Zero means the operands
	// never describe a colour.
	components() int
	// initial is the fill selected by cs.
	initial() []float64
	convert(c []float64) Color
}

type deviceGray struct{}

func (deviceGray) components() int           { return 1 }
func (deviceGray) initial() []float64        { return []float64{0} }
func (deviceGray) convert(c []float64) Color { return grayColor(c[0]) }

type deviceRGB struct{}

func (deviceRGB) components() int           { return 3 }
func (deviceRGB) initial() []float64        { return []float64{0, 0, 0} }
func (deviceRGB) convert(c []float64) Color { return rgbColor(c[0], c[1], c[2]) }

type deviceCMYK struct{}

func (deviceCMYK) components() int           { return 4 }
func (deviceCMYK) initial() []float64        { return []float64{0, 0, 0, 1} }
func (deviceCMYK) convert(c []float64) Color { return cmykColor(c[0], c[1], c[2], c[3]) }

type patternSpace struct{}

func (patternSpace) components() int         { return 0 }
func (patternSpace) initial() []float64      { return nil }
func (patternSpace) convert([]float64) Color { return Black }

// labSpace is CIE L*a*b* relative to the dictionary's white point.
type labSpace struct {
	white [3]float64
	rng   [4]float64 // amin amax bmin bmax
}

func newLabSpace(dict pdflib.Value) labSpace {
	s := labSpace{white: colorful.D50, rng: [4]float64{-100, 100, -100, 100}}
	if wp := floats(dict.Key("WhitePoint")); len(wp) == 3 {
		copy(s.white[:], wp)
	}
	if r := floats(dict.Key("Range")); len(r) == 4 {
		copy(s.rng[:], r)
	}
	return s
}

func (labSpace) components() int    { return 3 }
func (labSpace) initial() []float64 { return []float64{0, 0, 0} }

func (s labSpace) convert(c []float64) Color {
	l := clamp(c[0], 0, 100)
	a := clamp(c[1], s.rng[0], s.rng[1])
	b := clamp(c[2], s.rng[2], s.rng[3])
	col := colorful.LabWhiteRef(l/100, a/100, b/100, s.white).Clamped()
	return rgbColor(col.R, col.G, col.B)
}

// indexedSpace maps an index through a lookup table into a base space.
type indexedSpace struct {
	base   colorSpace
	hival  int
	lookup []byte
}

func (*indexedSpace) components() int    { return 1 }
func (*indexedSpace) initial() []float64 { return []float64{0} }

func (s *indexedSpace) convert(c []float64) Color {
	i := int(clamp(math.Round(c[0]), 0, float64(s.hival)))
	n := s.base.components()
	off := i * n
	if off+n > len(s.lookup) {
		return s.base.convert(s.base.initial())
	}
	comps := make([]float64, n)
	for j := range comps {
		comps[j] = float64(s.lookup[off+j]) / 255
	}
	if lab, ok := s.base.(labSpace); ok {
		comps[0] *= 100
		comps[1] = lab.rng[0] + comps[1]*(lab.rng[1]-lab.rng[0])
		comps[2] = lab.rng[2] + comps[2]*(lab.rng[3]-lab.rng[2])
	}
	return s.base.convert(comps)
}

// tintSpace covers Separation (n = 1) and DeviceN. Tints are mapped into the
// alternate space by the tint transform.
type tintSpace struct {
	n   int
	alt colorSpace
	fn  function // nil when the transform could not be read
}

func (s *tintSpace) components() int { return s.n }

func (s *tintSpace) initial() []float64 {
	c := make([]float64, s.n)
	for i := range c {
		c[i] = 1
	}
	return c
}

func (s *tintSpace) convert(c []float64) Color {
	m := s.alt.components()
	if s.fn != nil {
		if out := s.fn.eval(c); len(out) >= m {
			return s.alt.convert(out[len(out)-m:])
		}
	}
	return s.alt.convert(linearTint(c, s.alt))
}

// linearTint approximates an unreadable tint transform as a ramp from no
// ink to full black in the alternate space.
func linearTint(c []float64, alt colorSpace) []float64 {
	var t float64
	for _, v := range c {
		t = math.Max(t, clamp(v, 0, 1))
	}
	switch alt.components() {
	case 1:
		return []float64{1 - t}
	case 3:
		return []float64{1 - t, 1 - t, 1 - t}
	case 4:
		return []float64{0, 0, 0, t}
	}
	return alt.initial()
}

// resolveColorSpace turns a cs operand or colour space object into a
// colorSpace. It returns nil for spaces it cannot interpret.
func resolveColorSpace(v, resources pdflib.Value, depth int) colorSpace {
	if depth > maxColorSpaceDepth {
		return nil
	}
	switch v.Kind() {
	case pdflib.Name:
		switch v.Name() {
		case "DeviceGray", "G", "CalGray":
			return deviceGray{}
		case "DeviceRGB", "RGB", "CalRGB":
			return deviceRGB{}
		case "DeviceCMYK", "CMYK":
			return deviceCMYK{}
		case "Pattern":
			return patternSpace{}
		}
		named := resources.Key("ColorSpace").Key(v.Name())
		if named.IsNull() {
			return nil
		}
		return resolveColorSpace(named, resources, depth+1)
	case pdflib.Array:
		return resolveFamily(v, resources, depth)
	}
	return nil
}

func resolveFamily(v, resources pdflib.Value, depth int) colorSpace {
	switch v.Index(0).Name() {
	case "CalGray":
		return deviceGray{}
	case "CalRGB":
		return deviceRGB{}
	case "Lab":
		return newLabSpace(v.Index(1))
	case "Pattern":
		return patternSpace{}

	case "ICCBased":
		profile := v.Index(1)
		if alt := profile.Key("Alternate"); !alt.IsNull() {
			if cs := resolveColorSpace(alt, resources, depth+1); cs != nil {
				return cs
			}
		}
		return deviceSpace(int(profile.Key("N").Int64()))

	case "Indexed", "I":
		base := resolveColorSpace(v.Index(1), resources, depth+1)
		if base == nil || base.components() == 0 {
			return nil
		}
		return &indexedSpace{
			base:   base,
			hival:  int(v.Index(2).Int64()),
			lookup: streamOrString(v.Index(3)),
		}

	case "Separation":
		alt := resolveColorSpace(v.Index(2), resources, depth+1)
		if alt == nil || alt.components() == 0 {
			return nil
		}
		return &tintSpace{n: 1, alt: alt, fn: parseFunction(v.Index(3))}

	case "DeviceN":
		n := v.Index(1).Len()
		alt := resolveColorSpace(v.Index(2), resources, depth+1)
		if n == 0 || alt == nil || alt.components() == 0 {
			return nil
		}
		return &tintSpace{n: n, alt: alt, fn: parseFunction(v.Index(3))}
	}
	if v.Len() == 1 {
		return resolveColorSpace(v.Index(0), resources, depth+1)
	}
	return nil
}

func deviceSpace(n int) colorSpace {
	switch n {
	case 1:
		return deviceGray{}
	case 3:
		return deviceRGB{}
	case 4:
		return deviceCMYK{}
	}
	return nil
}

// streamOrString returns the bytes of a string or the decoded contents of a
// stream.
func streamOrString(v pdflib.Value) []byte {
	switch v.Kind() {
	case pdflib.String:
		return []byte(v.RawString())
	case pdflib.Stream:
		rc := v.Reader()
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}

func floats(v pdflib.Value) []float64 {
	if v.Kind() != pdflib.Array {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.Index(i).Float64()
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
