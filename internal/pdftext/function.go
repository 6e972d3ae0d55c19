package pdftext

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// function is a PDF function object as used by tint transforms.
type function interface {
	// eval returns nil when the function cannot be evaluated for in.
	eval(in []float64) []float64
}

// parseFunction reads a tint transform. Exponential (type 2) and
// PostScript calculator (type 4) functions are supported, as is an array of
// single output functions. Anything else returns nil.
func parseFunction(v pdflib.Value) function {
	if v.Kind() == pdflib.Array {
		parts := make(multiFunction, v.Len())
		for i := range parts {
			if parts[i] = parseFunction(v.Index(i)); parts[i] == nil {
				return nil
			}
		}
		return parts
	}

	switch v.Key("FunctionType").Int64() {
	case 2:
		f := &exponential{
			domain: floats(v.Key("Domain")),
			rng:    floats(v.Key("Range")),
			c0:     floats(v.Key("C0")),
			c1:     floats(v.Key("C1")),
			n:      v.Key("N").Float64(),
		}
		if len(f.c0) == 0 {
			f.c0 = []float64{0}
		}
		if len(f.c1) != len(f.c0) {
			f.c1 = make([]float64, len(f.c0))
			for i := range f.c1 {
				f.c1[i] = 1
			}
		}
		return f
	case 4:
		prog, err := parsePostScript(string(streamOrString(v)))
		if err != nil {
			return nil
		}
		return &calculator{
			domain: floats(v.Key("Domain")),
			rng:    floats(v.Key("Range")),
			prog:   prog,
		}
	}
	return nil
}

type multiFunction []function

func (m multiFunction) eval(in []float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, f := range m {
		r := f.eval(in)
		if len(r) == 0 {
			return nil
		}
		out = append(out, r[0])
	}
	return out
}

// exponential is C0 + x^N * (C1 - C0) for a single input x.
type exponential struct {
	domain, rng []float64
	c0, c1      []float64
	n           float64
}

func (f *exponential) eval(in []float64) []float64 {
	if len(in) == 0 {
		return nil
	}
	x := clipTo(in[0], f.domain, 0)
	xn := math.Pow(x, f.n)
	out := make([]float64, len(f.c0))
	for i := range out {
		out[i] = clipTo(f.c0[i]+xn*(f.c1[i]-f.c0[i]), f.rng, i)
	}
	return out
}

// clipTo clamps v to the i-th [min max] pair of bounds, if there is one.
func clipTo(v float64, bounds []float64, i int) float64 {
	if 2*i+1 >= len(bounds) {
		return v
	}
	return clamp(v, bounds[2*i], bounds[2*i+1])
}

// psToken is one element of a calculator program: a number, an operator or
// a nested procedure.
type psToken struct {
	num  float64
	op   string
	proc []psToken
}

func (t psToken) isProc() bool { return t.proc != nil }

// calculator evaluates a type 4 PostScript calculator function. Booleans are
// represented as 1 and 0.
type calculator struct {
	domain, rng []float64
	prog        []psToken
}

// maxStack is the operand stack limit of the PostScript calculator.
const maxStack = 100

func (c *calculator) eval(in []float64) []float64 {
	st := make([]float64, 0, 16)
	for i, v := range in {
		st = append(st, clipTo(v, c.domain, i))
	}
	st, err := execPS(c.prog, st)
	if err != nil {
		return nil
	}
	n := len(c.rng) / 2
	if n == 0 {
		return st
	}
	if len(st) < n {
		return nil
	}
	out := append([]float64(nil), st[len(st)-n:]...)
	for i := range out {
		out[i] = clipTo(out[i], c.rng, i)
	}
	return out
}

var errStack = errors.New("calculator stack error")

func parsePostScript(src string) ([]psToken, error) {
	src = strings.NewReplacer("{", " { ", "}", " } ").Replace(src)
	fields := strings.Fields(src)
	if len(fields) == 0 || fields[0] != "{" {
		return nil, errors.New("calculator program must start with {")
	}
	prog, rest, err := parseProc(fields[1:])
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing tokens after program: %v", rest)
	}
	return prog, nil
}

func parseProc(fields []string) ([]psToken, []string, error) {
	out := []psToken{}
	for len(fields) > 0 {
		tok := fields[0]
		fields = fields[1:]
		switch tok {
		case "}":
			return out, fields, nil
		case "{":
			proc, rest, err := parseProc(fields)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, psToken{proc: proc})
			fields = rest
		default:
			if n, err := strconv.ParseFloat(tok, 64); err == nil {
				out = append(out, psToken{num: n})
			} else {
				out = append(out, psToken{op: tok})
			}
		}
	}
	return nil, nil, errors.New("unterminated procedure")
}

func execPS(prog []psToken, st []float64) ([]float64, error) {
	var err error
	for i := 0; i < len(prog); i++ {
		t := prog[i]
		switch {
		case t.isProc():
			// Procedures only appear as operands of if and ifelse.
			if i+1 < len(prog) && prog[i+1].op == "if" {
				var cond float64
				if st, cond, err = pop(st); err != nil {
					return nil, err
				}
				if cond != 0 {
					if st, err = execPS(t.proc, st); err != nil {
						return nil, err
					}
				}
				i++
				continue
			}
			if i+2 < len(prog) && prog[i+1].isProc() && prog[i+2].op == "ifelse" {
				var cond float64
				if st, cond, err = pop(st); err != nil {
					return nil, err
				}
				branch := prog[i+1].proc
				if cond != 0 {
					branch = t.proc
				}
				if st, err = execPS(branch, st); err != nil {
					return nil, err
				}
				i += 2
				continue
			}
			return nil, errors.New("procedure without if or ifelse")
		case t.op == "":
			st = append(st, t.num)
		default:
			if st, err = psOp(t.op, st); err != nil {
				return nil, err
			}
		}
		if len(st) > maxStack {
			return nil, errStack
		}
	}
	return st, nil
}

func pop(st []float64) ([]float64, float64, error) {
	if len(st) == 0 {
		return nil, 0, errStack
	}
	return st[:len(st)-1], st[len(st)-1], nil
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

var psUnary = map[string]func(float64) float64{
	"neg":      func(x float64) float64 { return -x },
	"abs":      math.Abs,
	"ceiling":  math.Ceil,
	"floor":    math.Floor,
	"round":    func(x float64) float64 { return math.Floor(x + 0.5) },
	"truncate": math.Trunc,
	"cvi":      math.Trunc,
	"cvr":      func(x float64) float64 { return x },
	"sqrt":     math.Sqrt,
	"sin":      func(x float64) float64 { return math.Sin(x * math.Pi / 180) },
	"cos":      func(x float64) float64 { return math.Cos(x * math.Pi / 180) },
	"ln":       math.Log,
	"log":      math.Log10,
	"not": func(x float64) float64 {
		if x == 0 || x == 1 {
			return 1 - x
		}
		return float64(^int64(x))
	},
}

var psBinary = map[string]func(a, b float64) float64{
	"add":  func(a, b float64) float64 { return a + b },
	"sub":  func(a, b float64) float64 { return a - b },
	"mul":  func(a, b float64) float64 { return a * b },
	"div":  func(a, b float64) float64 { return a / b },
	"idiv": func(a, b float64) float64 { return math.Trunc(a / b) },
	"mod":  func(a, b float64) float64 { return float64(int64(a) % int64(b)) },
	"exp":  math.Pow,
	"atan": func(a, b float64) float64 {
		d := degrees(math.Atan2(a, b))
		if d < 0 {
			d += 360
		}
		return d
	},
	"eq":       func(a, b float64) float64 { return boolNum(a == b) },
	"ne":       func(a, b float64) float64 { return boolNum(a != b) },
	"gt":       func(a, b float64) float64 { return boolNum(a > b) },
	"ge":       func(a, b float64) float64 { return boolNum(a >= b) },
	"lt":       func(a, b float64) float64 { return boolNum(a < b) },
	"le":       func(a, b float64) float64 { return boolNum(a <= b) },
	"and":      func(a, b float64) float64 { return float64(int64(a) & int64(b)) },
	"or":       func(a, b float64) float64 { return float64(int64(a) | int64(b)) },
	"xor":      func(a, b float64) float64 { return float64(int64(a) ^ int64(b)) },
	"bitshift": bitshift,
}

func psOp(op string, st []float64) ([]float64, error) {
	switch op {
	case "true":
		return append(st, 1), nil
	case "false":
		return append(st, 0), nil
	}

	if fn, ok := psUnary[op]; ok {
		if len(st) < 1 {
			return nil, errStack
		}
		st[len(st)-1] = fn(st[len(st)-1])
		return st, nil
	}

	if fn, ok := psBinary[op]; ok {
		if len(st) < 2 {
			return nil, errStack
		}
		if (op == "idiv" || op == "mod") && int64(st[len(st)-1]) == 0 {
			return nil, errors.New("calculator division by zero")
		}
		a, b := st[len(st)-2], st[len(st)-1]
		st = st[:len(st)-2]
		return append(st, fn(a, b)), nil
	}

	switch op {
	case "dup":
		if len(st) < 1 {
			return nil, errStack
		}
		return append(st, st[len(st)-1]), nil
	case "exch":
		if len(st) < 2 {
			return nil, errStack
		}
		n := len(st)
		st[n-1], st[n-2] = st[n-2], st[n-1]
		return st, nil
	case "pop":
		st, _, err := pop(st)
		return st, err
	case "copy":
		st, n, err := pop(st)
		if err != nil || n < 0 || int(n) > len(st) {
			return nil, errStack
		}
		return append(st, st[len(st)-int(n):]...), nil
	case "index":
		st, n, err := pop(st)
		if err != nil || n < 0 || int(n) >= len(st) {
			return nil, errStack
		}
		return append(st, st[len(st)-1-int(n)]), nil
	case "roll":
		st, j, err := pop(st)
		if err != nil {
			return nil, err
		}
		st, n, err := pop(st)
		if err != nil || n < 0 || int(n) > len(st) {
			return nil, errStack
		}
		roll(st[len(st)-int(n):], int(j))
		return st, nil
	}
	return nil, fmt.Errorf("unsupported calculator operator %q", op)
}

func bitshift(a, b float64) float64 {
	x, s := int64(a), int64(b)
	if s >= 0 {
		return float64(x << uint(s))
	}
	return float64(x >> uint(-s))
}

// roll rotates s by j positions towards the top of the stack.
func roll(s []float64, j int) {
	n := len(s)
	if n == 0 {
		return
	}
	j = ((j % n) + n) % n
	tmp := append([]float64(nil), s...)
	for i := range s {
		s[(i+j)%n] = tmp[i]
	}
}
