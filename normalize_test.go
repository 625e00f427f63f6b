package sym

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	tests := []struct {
		input string
		want  string
	}{
		{"x+x", "2*x"},
		{"x*x", "x^2"},
		{"x*x^2", "x^3"},
		{"2*x*3*y", "6*x*y"},
		{"x+y+x", "2*x+y"},
		{"x-x", "0"},
		{"x*y*0", "0"},
		{"x^0", "1"},
		{"x^1", "x"},
		{"2^3", "8"},
		{"2^(0-2)", "1/4"},
		{"(x+1)+(x+2)", "2*x+3"},
		{"x*(1+y)", "x*(y+1)"},
		{"x^2*x^(0-2)", "1"},
		{"0+x", "x"},
		{"1*x", "x"},
		{"(x*y)*z", "x*y*z"},
	}
	for i, test := range tests {
		out := &Atom{}
		if err := ParseAtom(state, ws, test.input, out); err != nil {
			t.Fatalf("%d %+v", i, err)
		}
		if got := out.String(state); got != test.want {
			t.Fatalf("%d: %q -> %q, want %q", i, test.input, got, test.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	inputs := []string{
		"x+x", "x*(1+y)", "(x+1)^2", "x^2*y+y^2*x", "1/(x+1)+1/(x-1)",
	}
	for i, input := range inputs {
		once := &Atom{}
		if err := ParseAtom(state, ws, input, once); err != nil {
			t.Fatalf("%d %+v", i, err)
		}
		twice := &Atom{}
		once.Normalize(ws, state, twice)
		if !once.Equal(twice) {
			t.Fatalf("%d: %s != %s", i, once.String(state), twice.String(state))
		}
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()
	state := NewState()
	ws := NewWorkspace()
	tests := []struct {
		input   string
		want    string
		changed bool
	}{
		{"(x+1)^2", "2*x+x^2+1", true},
		{"x*(y+1)", "x+x*y", true},
		{"(x+1)*(x-1)", "x^2-1", true},
		{"x^3", "x^3", false},
		{"x^(0-2)", "x^(-2)", false},
		{"x+y", "x+y", false},
		{"(x+y)^2*z", "2*x*y*z+x^2*z+y^2*z", true},
	}
	for i, test := range tests {
		in := &Atom{}
		if err := ParseAtom(state, ws, test.input, in); err != nil {
			t.Fatalf("%d %+v", i, err)
		}
		out := &Atom{}
		changed := in.Expand(ws, state, out)
		if changed != test.changed {
			t.Fatalf("%d: changed=%t, want %t", i, changed, test.changed)
		}
		if got := out.String(state); got != test.want {
			t.Fatalf("%d: %q -> %q, want %q", i, test.input, got, test.want)
		}
	}
}
