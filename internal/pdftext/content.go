package pdftext

import (
	"math"

	pdflib "github.com/ledongthuc/pdf"
)

// maxFormDepth bounds nested Form XObject traversal.
const maxFormDepth = 8

type matrix [3][3]float64

var ident = matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (x matrix) mul(y matrix) matrix {
	var z matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				z[i][j] += x[i][k] * y[k][j]
			}
		}
	}
	return z
}

func matrixFromArgs(args []pdflib.Value) matrix {
	var m matrix
	for i := 0; i < 6; i++ {
		m[i/2][i%2] = args[i].Float64()
	}
	m[2][2] = 1
	return m
}

// gstate is the subset of the PDF graphics and text state that affects
// glyph placement and fill colour.
type gstate struct {
	Tc    float64
	Tw    float64
	Th    float64
	Tl    float64
	Tfs   float64
	Trise float64
	Tf    pdflib.Font
	enc   pdflib.TextEncoding
	Tm    matrix
	Tlm   matrix
	CTM   matrix
	Fill  Color

	// cs is the non-stroking colour space; nil when cs named a space that
	// could not be interpreted, in which case sc/scn go by operand count.
	cs colorSpace
}

func newGState() gstate {
	return gstate{
		Th:   1,
		CTM:  ident,
		Tm:   ident,
		Tlm:  ident,
		Fill: Black,
		cs:   deviceGray{},
		enc:  rawEncoding{},
	}
}

// Glyph is one rendered character instance.
type Glyph struct {
	Pos    GlyphPosition
	Text   string
	X, Y   float64 // baseline origin in device space
	Width  float64 // advance width in device space
	Size   float64 // effective font size in device space
	SpaceW float64 // width of a space in the current font
	Fill   Color
}

// rawEncoding passes bytes through unchanged when a font has no usable encoder.
type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }

// interpreter walks content streams and records every shown glyph with the
// fill colour active at the time it was drawn.
type interpreter struct {
	next   GlyphPosition
	g      gstate
	gstack []gstate
	glyphs []Glyph
}

func newInterpreter(first GlyphPosition) *interpreter {
	return &interpreter{next: first, g: newGState()}
}

func (in *interpreter) alloc() GlyphPosition {
	p := in.next
	in.next++
	return p
}

// page interprets every content stream of a page. Contents may be a single
// stream or an array of streams that are logically concatenated.
func (in *interpreter) page(p pdflib.Page) {
	contents := p.V.Key("Contents")
	resources := p.Resources()
	if contents.Kind() == pdflib.Array {
		for i := 0; i < contents.Len(); i++ {
			in.stream(contents.Index(i), resources, 0)
		}
		return
	}
	if contents.IsNull() {
		return
	}
	in.stream(contents, resources, 0)
}

func (in *interpreter) stream(strm, resources pdflib.Value, depth int) {
	pdflib.Interpret(strm, func(stk *pdflib.Stack, op string) {
		n := stk.Len()
		args := make([]pdflib.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		in.op(op, args, resources, depth)
	})
}

func (in *interpreter) op(op string, args []pdflib.Value, resources pdflib.Value, depth int) {
	g := &in.g
	switch op {
	default:
		return

	case "q":
		in.gstack = append(in.gstack, in.g)

	case "Q":
		if n := len(in.gstack); n > 0 {
			in.g = in.gstack[n-1]
			in.gstack = in.gstack[:n-1]
		}

	case "cm":
		if len(args) != 6 {
			return
		}
		g.CTM = matrixFromArgs(args).mul(g.CTM)

	case "g":
		if len(args) == 1 {
			g.cs = deviceGray{}
			g.Fill = grayColor(args[0].Float64())
		}

	case "rg":
		if len(args) == 3 {
			g.cs = deviceRGB{}
			g.Fill = rgbColor(args[0].Float64(), args[1].Float64(), args[2].Float64())
		}

	case "k":
		if len(args) == 4 {
			g.cs = deviceCMYK{}
			g.Fill = cmykColor(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64())
		}

	case "cs":
		if len(args) != 1 {
			return
		}
		// Selecting a colour space resets the fill to the space's initial colour.
		g.cs = resolveColorSpace(args[0], resources, 0)
		switch {
		case g.cs == nil:
			g.Fill = Black
		case g.cs.components() > 0:
			g.Fill = g.cs.convert(g.cs.initial())
		}

	case "sc", "scn":
		comps := make([]float64, 0, len(args))
		for _, a := range args {
			switch a.Kind() {
			case pdflib.Integer, pdflib.Real:
				comps = append(comps, a.Float64())
			default:
				// Pattern fill, keep the current colour.
				return
			}
		}
		if g.cs != nil && g.cs.components() == len(comps) {
			g.Fill = g.cs.convert(comps)
			return
		}
		if c, ok := colorFromComponents(comps); ok {
			g.Fill = c
		}

	case "BT":
		g.Tm = ident
		g.Tlm = ident

	case "ET":

	case "Tc":
		if len(args) == 1 {
			g.Tc = args[0].Float64()
		}

	case "Tw":
		if len(args) == 1 {
			g.Tw = args[0].Float64()
		}

	case "Tz":
		if len(args) == 1 {
			g.Th = args[0].Float64() / 100
		}

	case "TL":
		if len(args) == 1 {
			g.Tl = args[0].Float64()
		}

	case "Ts":
		if len(args) == 1 {
			g.Trise = args[0].Float64()
		}

	case "Tf":
		if len(args) != 2 {
			return
		}
		g.Tf = pdflib.Font{V: resources.Key("Font").Key(args[0].Name())}
		g.enc = g.Tf.Encoder()
		if g.enc == nil {
			g.enc = rawEncoding{}
		}
		g.Tfs = args[1].Float64()

	case "TD":
		if len(args) != 2 {
			return
		}
		g.Tl = -args[1].Float64()
		in.moveText(args[0].Float64(), args[1].Float64())

	case "Td":
		if len(args) != 2 {
			return
		}
		in.moveText(args[0].Float64(), args[1].Float64())

	case "T*":
		in.moveText(0, -g.Tl)

	case "Tm":
		if len(args) != 6 {
			return
		}
		g.Tm = matrixFromArgs(args)
		g.Tlm = g.Tm

	case "Tj":
		if len(args) == 1 {
			in.showText(args[0].RawString())
		}

	case "'":
		if len(args) != 1 {
			return
		}
		in.moveText(0, -g.Tl)
		in.showText(args[0].RawString())

	case "\"":
		if len(args) != 3 {
			return
		}
		g.Tw = args[0].Float64()
		g.Tc = args[1].Float64()
		in.moveText(0, -g.Tl)
		in.showText(args[2].RawString())

	case "TJ":
		if len(args) != 1 {
			return
		}
		v := args[0]
		for i := 0; i < v.Len(); i++ {
			x := v.Index(i)
			if x.Kind() == pdflib.String {
				in.showText(x.RawString())
				continue
			}
			tx := -x.Float64() / 1000 * g.Tfs * g.Th
			g.Tm = matrix{{1, 0, 0}, {0, 1, 0}, {tx, 0, 1}}.mul(g.Tm)
		}

	case "Do":
		if len(args) != 1 || depth >= maxFormDepth {
			return
		}
		in.form(resources.Key("XObject").Key(args[0].Name()), resources, depth)
	}
}

func (in *interpreter) moveText(tx, ty float64) {
	g := &in.g
	g.Tlm = matrix{{1, 0, 0}, {0, 1, 0}, {tx, ty, 1}}.mul(g.Tlm)
	g.Tm = g.Tlm
}

// form traverses a Form XObject with its own matrix and resources. The
// graphics state is restored afterwards as if wrapped in q/Q.
func (in *interpreter) form(xobj, parentRes pdflib.Value, depth int) {
	if xobj.Key("Subtype").Name() != "Form" {
		return
	}
	saved := in.g
	savedStack := len(in.gstack)

	if m := xobj.Key("Matrix"); m.Kind() == pdflib.Array && m.Len() == 6 {
		args := make([]pdflib.Value, 6)
		for i := range args {
			args[i] = m.Index(i)
		}
		in.g.CTM = matrixFromArgs(args).mul(in.g.CTM)
	}
	res := xobj.Key("Resources")
	if res.IsNull() {
		res = parentRes
	}
	in.stream(xobj, res, depth+1)

	in.g = saved
	if len(in.gstack) > savedStack {
		in.gstack = in.gstack[:savedStack]
	}
}

// showText emits one glyph per decoded rune and advances the text matrix.
// Widths are looked up by byte, which is exact for simple fonts.
func (in *interpreter) showText(raw string) {
	g := &in.g
	decoded := g.enc.Decode(raw)
	spaceW := g.Tf.Width(' ')
	if spaceW <= 0 {
		spaceW = 250
	}

	n := 0
	for _, ch := range decoded {
		var w0 float64
		if n < len(raw) {
			w0 = g.Tf.Width(int(raw[n]))
		}
		n++
		if w0 <= 0 {
			w0 = 500
		}

		trm := matrix{{g.Tfs * g.Th, 0, 0}, {0, g.Tfs, 0}, {0, g.Trise, 1}}.mul(g.Tm).mul(g.CTM)
		scale := math.Hypot(trm[0][0], trm[0][1])
		in.glyphs = append(in.glyphs, Glyph{
			Pos:    in.alloc(),
			Text:   string(ch),
			X:      trm[2][0],
			Y:      trm[2][1],
			Width:  w0 / 1000 * scale,
			Size:   math.Hypot(trm[1][0], trm[1][1]),
			SpaceW: spaceW / 1000 * scale,
			Fill:   g.Fill,
		})

		tx := w0/1000*g.Tfs + g.Tc
		if ch == ' ' {
			tx += g.Tw
		}
		tx *= g.Th
		g.Tm = matrix{{1, 0, 0}, {0, 1, 0}, {tx, 0, 1}}.mul(g.Tm)
	}
}
