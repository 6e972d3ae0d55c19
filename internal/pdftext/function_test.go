package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calc(t *testing.T, src string, rng []float64) *calculator {
	t.Helper()
	prog, err := parsePostScript(src)
	require.NoError(t, err)
	return &calculator{domain: []float64{0, 1}, rng: rng, prog: prog}
}

func TestCalculator_Arithmetic(t *testing.T) {
	c := calc(t, "{ dup 0.5 mul exch 2 exp }", []float64{0, 1, 0, 1})
	assert.InDeltaSlice(t, []float64{0.25, 0.25}, c.eval([]float64{0.5}), 1e-9)
}

func TestCalculator_IfElse(t *testing.T) {
	c := calc(t, "{ dup 0.5 gt { pop 1 } { pop 0 } ifelse }", nil)
	assert.Equal(t, []float64{1}, c.eval([]float64{0.75}))
	assert.Equal(t, []float64{0}, c.eval([]float64{0.25}))

	c = calc(t, "{ dup 0 eq { pop 0.5 } if }", nil)
	assert.Equal(t, []float64{0.5}, c.eval([]float64{0}))
	assert.Equal(t, []float64{1}, c.eval([]float64{1}))
}

func TestCalculator_StackOperators(t *testing.T) {
	c := calc(t, "{ 2 3 3 1 roll }", nil)
	assert.Equal(t, []float64{3, 1, 2}, c.eval([]float64{1}))

	c = calc(t, "{ 2 3 2 index 2 copy pop }", nil)
	assert.Equal(t, []float64{1, 2, 3, 1, 3}, c.eval([]float64{1}))
}

func TestCalculator_ClipsToDomainAndRange(t *testing.T) {
	c := calc(t, "{ 2 mul }", []float64{0, 1})
	assert.Equal(t, []float64{1}, c.eval([]float64{0.75}))
	assert.Equal(t, []float64{0}, c.eval([]float64{-3}))
}

func TestCalculator_Errors(t *testing.T) {
	assert.Nil(t, calc(t, "{ pop pop }", nil).eval([]float64{1}), "stack underflow")
	assert.Nil(t, calc(t, "{ foo }", nil).eval([]float64{1}), "unknown operator")
	assert.Nil(t, calc(t, "{ 0 idiv }", nil).eval([]float64{1}), "division by zero")
	assert.Nil(t, calc(t, "{ pop 0 0 }", []float64{0, 1, 0, 1, 0, 1, 0, 1}).eval([]float64{1}), "too few outputs")

	_, err := parsePostScript("1 add")
	assert.Error(t, err)
	_, err = parsePostScript("{ 1 add")
	assert.Error(t, err)
	_, err = parsePostScript("{ 1 } 2")
	assert.Error(t, err)
}

func TestExponential(t *testing.T) {
	f := &exponential{
		domain: []float64{0, 1},
		c0:     []float64{0, 0},
		c1:     []float64{1, 0.5},
		n:      2,
	}
	assert.InDeltaSlice(t, []float64{0.25, 0.125}, f.eval([]float64{0.5}), 1e-9)
	assert.InDeltaSlice(t, []float64{1, 0.5}, f.eval([]float64{4}), 1e-9, "input clips to domain")
}

func TestMultiFunction(t *testing.T) {
	m := multiFunction{
		&exponential{c0: []float64{0}, c1: []float64{1}, n: 1},
		&exponential{c0: []float64{1}, c1: []float64{0}, n: 1},
	}
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, m.eval([]float64{0.25}), 1e-9)
}

func TestLinearTint(t *testing.T) {
	assert.Equal(t, []float64{0}, linearTint([]float64{1}, deviceGray{}))
	assert.Equal(t, []float64{0, 0, 0, 0.5}, linearTint([]float64{0.5, 0.2}, deviceCMYK{}))
}

func TestIndexedConvert(t *testing.T) {
	s := &indexedSpace{base: deviceRGB{}, hival: 2, lookup: []byte{255, 0, 0, 0, 0, 255}}
	assert.Equal(t, Color{0, 0, 255}, s.convert([]float64{1}))
	assert.Equal(t, Black, s.convert([]float64{2}), "short table falls back to base initial colour")
}
