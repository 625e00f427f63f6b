package poly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fumin/sym"
)

func TestAppendMonomial(t *testing.T) {
	t.Parallel()
	state := sym.NewState()
	vars := []sym.Identifier{state.GetOrInsert("x"), state.GetOrInsert("y")}
	field := NewRat(1, 1)

	p := New[*Rat, U8](field, vars)
	p.AppendMonomial(NewRat(2, 1), []U8{1, 0})
	p.AppendMonomial(NewRat(1, 1), []U8{0, 2})
	p.AppendMonomial(NewRat(3, 1), []U8{1, 0})
	require.Equal(t, 2, p.Len())

	// Like terms merged: the x coefficient is 5.
	c, ok := p.m.Get([]U8{1, 0})
	require.True(t, ok)
	require.True(t, c.Equal(NewRat(5, 1)))

	// Cancellation deletes the term.
	p.AppendMonomial(NewRat(-1, 1), []U8{0, 2})
	require.Equal(t, 1, p.Len())

	// Zero coefficients are ignored.
	p.AppendMonomial(NewRat(0, 1), []U8{0, 1})
	require.Equal(t, 1, p.Len())
}

func TestTermsOrder(t *testing.T) {
	t.Parallel()
	state := sym.NewState()
	vars := []sym.Identifier{state.GetOrInsert("x"), state.GetOrInsert("y")}
	field := NewRat(1, 1)

	p := New[*Rat, U8](field, vars)
	p.AppendMonomial(NewRat(1, 1), []U8{0, 0})
	p.AppendMonomial(NewRat(1, 1), []U8{2, 0})
	p.AppendMonomial(NewRat(1, 1), []U8{0, 1})
	p.AppendMonomial(NewRat(1, 1), []U8{1, 1})

	// Leading monomial first under deglex.
	var got [][]U8
	for _, w := range p.Terms() {
		got = append(got, []U8{w[0], w[1]})
	}
	want := [][]U8{{2, 0}, {1, 1}, {0, 1}, {0, 0}}
	require.Equal(t, want, got)
}

func TestPolynomialArithmetic(t *testing.T) {
	t.Parallel()
	state := sym.NewState()
	vars := []sym.Identifier{state.GetOrInsert("x")}
	field := NewRat(1, 1)

	// (x+1)*(x-1) = x^2-1
	a := New[*Rat, U8](field, vars)
	a.AppendMonomial(NewRat(1, 1), []U8{1})
	a.AppendMonomial(NewRat(1, 1), []U8{0})
	b := New[*Rat, U8](field, vars)
	b.AppendMonomial(NewRat(1, 1), []U8{1})
	b.AppendMonomial(NewRat(-1, 1), []U8{0})

	prod := New[*Rat, U8](field, vars).Mul(a, b)
	want := New[*Rat, U8](field, vars)
	want.AppendMonomial(NewRat(1, 1), []U8{2})
	want.AppendMonomial(NewRat(-1, 1), []U8{0})
	require.True(t, prod.Equal(want), prod.String(state.Name))

	// a + (-a) = 0
	sum := New[*Rat, U8](field, vars).Add(a, New[*Rat, U8](field, vars).Neg(a))
	require.True(t, sum.IsZero())
}

func TestPolynomialString(t *testing.T) {
	t.Parallel()
	state := sym.NewState()
	vars := []sym.Identifier{state.GetOrInsert("x"), state.GetOrInsert("y")}
	field := NewRat(1, 1)

	p := New[*Rat, U8](field, vars)
	p.AppendMonomial(NewRat(-1, 1), []U8{2, 1})
	p.AppendMonomial(NewRat(5, 1), []U8{1, 0})
	p.AppendMonomial(NewRat(1, 2), []U8{0, 0})
	require.Equal(t, "-x^2*y+5*x+1/2", p.String(state.Name))

	require.Equal(t, "0", New[*Rat, U8](field, vars).String(state.Name))
}

func TestExponentWidths(t *testing.T) {
	t.Parallel()
	var e8 U8 = 255
	if _, ok := e8.CheckedAdd(1); ok {
		t.Fatalf("255+1 must overflow U8")
	}
	if _, ok := U8(0).FromU32(256); ok {
		t.Fatalf("256 must not fit U8")
	}
	if got, ok := U8(0).FromU32(255); !ok || got != 255 {
		t.Fatalf("%d %t", got, ok)
	}

	var e32 U32 = 1<<32 - 1
	if _, ok := e32.CheckedAdd(1); ok {
		t.Fatalf("2^32-1+1 must overflow U32")
	}
	if got, ok := U32(0).FromU32(1<<32 - 1); !ok || got != 1<<32-1 {
		t.Fatalf("%d %t", got, ok)
	}
}

func TestGcd(t *testing.T) {
	t.Parallel()
	state := sym.NewState()
	x := state.GetOrInsert("x")
	y := state.GetOrInsert("y")
	field := NewRat(1, 1)

	build := func(vars []sym.Identifier, terms map[string][]U8, coeffs map[string]*Rat) *Polynomial[*Rat, U8] {
		p := New[*Rat, U8](field, vars)
		for k, w := range terms {
			p.AppendMonomial(coeffs[k], w)
		}
		return p
	}

	// gcd(x^2-1, x+1) = x+1
	a := build([]sym.Identifier{x}, map[string][]U8{"x2": {2}, "c": {0}}, map[string]*Rat{"x2": NewRat(1, 1), "c": NewRat(-1, 1)})
	b := build([]sym.Identifier{x}, map[string][]U8{"x": {1}, "c": {0}}, map[string]*Rat{"x": NewRat(1, 1), "c": NewRat(1, 1)})
	g := Gcd(a, b)
	require.True(t, g.Equal(b), g.String(state.Name))

	// gcd(2x, x^2-1) = 1
	c := build([]sym.Identifier{x}, map[string][]U8{"x": {1}}, map[string]*Rat{"x": NewRat(2, 1)})
	g = Gcd(c, a)
	one := One[*Rat, U8](field, []sym.Identifier{x})
	require.True(t, g.Equal(one), g.String(state.Name))

	// gcd(x^2*y + x*y, x*y) = x*y
	vars := []sym.Identifier{x, y}
	d := build(vars, map[string][]U8{"x2y": {2, 1}, "xy": {1, 1}}, map[string]*Rat{"x2y": NewRat(1, 1), "xy": NewRat(1, 1)})
	e := build(vars, map[string][]U8{"xy": {1, 1}}, map[string]*Rat{"xy": NewRat(1, 1)})
	g = Gcd(d, e)
	require.True(t, g.Equal(e), g.String(state.Name))

	// gcd(x^2-y^2, x+y) = x+y
	f1 := build(vars, map[string][]U8{"x2": {2, 0}, "y2": {0, 2}}, map[string]*Rat{"x2": NewRat(1, 1), "y2": NewRat(-1, 1)})
	f2 := build(vars, map[string][]U8{"x": {1, 0}, "y": {0, 1}}, map[string]*Rat{"x": NewRat(1, 1), "y": NewRat(1, 1)})
	g = Gcd(f1, f2)
	require.True(t, g.Equal(f2), g.String(state.Name))
}

func TestDivExact(t *testing.T) {
	t.Parallel()
	state := sym.NewState()
	vars := []sym.Identifier{state.GetOrInsert("x"), state.GetOrInsert("y")}
	field := NewRat(1, 1)

	// (x^2*y + x*y^2) / (x*y) = x + y
	a := New[*Rat, U8](field, vars)
	a.AppendMonomial(NewRat(1, 1), []U8{2, 1})
	a.AppendMonomial(NewRat(1, 1), []U8{1, 2})
	b := New[*Rat, U8](field, vars)
	b.AppendMonomial(NewRat(1, 1), []U8{1, 1})

	q := divExact(a, b)
	want := New[*Rat, U8](field, vars)
	want.AppendMonomial(NewRat(1, 1), []U8{1, 0})
	want.AppendMonomial(NewRat(1, 1), []U8{0, 1})
	require.True(t, q.Equal(want), q.String(state.Name))
}
