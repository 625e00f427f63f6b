package sym

import (
	"testing"
)

func mustParse(t *testing.T, state *State, ws *Workspace, input string) *Atom {
	t.Helper()
	out := &Atom{}
	if err := ParseAtom(state, ws, input, out); err != nil {
		t.Fatalf("%q: %+v", input, err)
	}
	return out
}

// fun builds the normalized application of the function named name.
func fun(state *State, ws *Workspace, name string, args ...*Atom) *Atom {
	raw := ws.NewAtom()
	raw.SetFromName(state.GetOrInsert(name))
	for _, arg := range args {
		raw.AddArg(arg)
	}
	raw.SetDirty(true)
	out := &Atom{}
	raw.Normalize(ws, state, out)
	return out
}

func variable(state *State, name string) *Atom {
	a := &Atom{}
	a.SetFromVar(state.GetOrInsert(name))
	return a
}

func TestDerivative(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	tests := []struct {
		e       string
		x       string
		want    string
		nonzero bool
	}{
		{"x", "x", "1", true},
		{"y^2+2", "x", "0", false},
		{"7", "x", "0", false},
		{"x^2", "x", "2*x", true},
		{"x^3", "x", "3*x^2", true},
		{"1/x", "x", "-x^(-2)", true},
		{"x*y", "x", "y", true},
		{"x+y", "x", "1", true},
		{"x^y", "x", "x^(y-1)*y", true},
		{"x^y", "y", "x^y*log(x)", true},
		{"2^x", "x", "log(2)*2^x", true},
		{"x*y+y^2", "y", "x+2*y", true},
	}
	for i, test := range tests {
		e := mustParse(t, state, ws, test.e)
		x := state.GetOrInsert(test.x)
		out := &Atom{}
		nonzero := e.Derivative(x, ws, state, out)
		if nonzero != test.nonzero {
			t.Fatalf("%d: nonzero=%t, want %t", i, nonzero, test.nonzero)
		}
		if got := out.String(state); got != test.want {
			t.Fatalf("%d: d(%s)/d%s = %q, want %q", i, test.e, test.x, got, test.want)
		}
	}
}

func TestDerivativeFunctions(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	x := variable(state, "x")
	y := variable(state, "y")
	x2 := mustParse(t, state, ws, "x^2")

	tests := []struct {
		e       *Atom
		x       string
		want    string
		nonzero bool
	}{
		{fun(state, ws, "sin", x), "x", "cos(x)", true},
		{fun(state, ws, "cos", x), "x", "-sin(x)", true},
		{fun(state, ws, "log", x), "x", "x^(-1)", true},
		{fun(state, ws, "exp", x), "x", "exp(x)", true},
		{fun(state, ws, "exp", x2), "x", "2*x*exp(x^2)", true},
		{fun(state, ws, "f", x, y), "x", "der(1,0,f(x,y))", true},
		{fun(state, ws, "f", x, y), "y", "der(0,1,f(x,y))", true},
		{fun(state, ws, "f", x, x), "x", "der(0,1,f(x,x))+der(1,0,f(x,x))", true},
		{fun(state, ws, "f", y), "x", "0", false},
	}
	for i, test := range tests {
		out := &Atom{}
		nonzero := test.e.Derivative(state.GetOrInsert(test.x), ws, state, out)
		if nonzero != test.nonzero {
			t.Fatalf("%d: nonzero=%t, want %t", i, nonzero, test.nonzero)
		}
		if got := out.String(state); got != test.want {
			t.Fatalf("%d: %q, want %q", i, got, test.want)
		}
	}
}

func TestDerivativeProductOfFunction(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	x := variable(state, "x")

	// d(sin(x)*x)/dx = cos(x)*x + sin(x)
	raw := ws.NewAtom()
	raw.SetToMul()
	raw.Extend(fun(state, ws, "sin", x))
	raw.Extend(x)
	raw.SetDirty(true)
	e := &Atom{}
	raw.Normalize(ws, state, e)

	out := &Atom{}
	if !e.Derivative(state.GetOrInsert("x"), ws, state, out) {
		t.Fatalf("derivative is zero")
	}
	if got := out.String(state); got != "x*cos(x)+sin(x)" {
		t.Fatalf("%s", got)
	}
}

// Differentiating a derivative tag increments its count vector instead of
// nesting another tag.
func TestDerivativeTagAccumulates(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	x := variable(state, "x")
	y := variable(state, "y")
	xid := state.GetOrInsert("x")

	e := fun(state, ws, "f", x, y)
	for n := 1; n <= 3; n++ {
		out := &Atom{}
		if !e.Derivative(xid, ws, state, out) {
			t.Fatalf("n=%d: derivative is zero", n)
		}
		e = out
	}
	if got := e.String(state); got != "der(3,0,f(x,y))" {
		t.Fatalf("%s", got)
	}
}

func TestDerivativeLinearity(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	xid := state.GetOrInsert("x")

	pairs := [][2]string{
		{"x^2", "x*y"},
		{"1/x", "x^3+2*x"},
		{"y", "x"},
	}
	for i, pair := range pairs {
		e1 := mustParse(t, state, ws, pair[0])
		e2 := mustParse(t, state, ws, pair[1])

		sum := ws.NewAtom()
		sum.SetToAdd()
		sum.Extend(e1)
		sum.Extend(e2)
		sum.SetDirty(true)
		e := &Atom{}
		sum.Normalize(ws, state, e)

		dSum := &Atom{}
		e.Derivative(xid, ws, state, dSum)

		d1, d2 := &Atom{}, &Atom{}
		e1.Derivative(xid, ws, state, d1)
		e2.Derivative(xid, ws, state, d2)
		add := ws.NewAtom()
		add.SetToAdd()
		add.Extend(d1)
		add.Extend(d2)
		add.SetDirty(true)
		want := &Atom{}
		add.Normalize(ws, state, want)

		if !dSum.Equal(want) {
			t.Fatalf("%d: %s != %s", i, dSum.String(state), want.String(state))
		}
	}
}

func TestDerivativeProductRule(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	xid := state.GetOrInsert("x")

	pairs := [][2]string{
		{"x^2", "y+x"},
		{"x", "1/x"},
		{"x+1", "x-1"},
	}
	for i, pair := range pairs {
		e1 := mustParse(t, state, ws, pair[0])
		e2 := mustParse(t, state, ws, pair[1])

		mul := ws.NewAtom()
		mul.SetToMul()
		mul.Extend(e1)
		mul.Extend(e2)
		mul.SetDirty(true)
		e := &Atom{}
		mul.Normalize(ws, state, e)

		dProd := &Atom{}
		e.Derivative(xid, ws, state, dProd)

		// d1*e2 + e1*d2
		d1, d2 := &Atom{}, &Atom{}
		e1.Derivative(xid, ws, state, d1)
		e2.Derivative(xid, ws, state, d2)
		t1, t2 := ws.NewAtom(), ws.NewAtom()
		t1.SetToMul()
		t1.Extend(d1)
		t1.Extend(e2)
		t1.SetDirty(true)
		t2.SetToMul()
		t2.Extend(e1)
		t2.Extend(d2)
		t2.SetDirty(true)
		add := ws.NewAtom()
		add.SetToAdd()
		add.Extend(t1)
		add.Extend(t2)
		add.SetDirty(true)
		want := &Atom{}
		add.Normalize(ws, state, want)

		if !dProd.Equal(want) {
			t.Fatalf("%d: %s != %s", i, dProd.String(state), want.String(state))
		}
	}
}
