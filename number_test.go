package sym

import (
	"math"
	"math/big"
	"testing"
)

func TestNaturalCanonicalForm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p, q  int64
		wantP int64
		wantQ int64
	}{
		{6, 4, 3, 2},
		{-6, 4, -3, 2},
		{6, -4, -3, 2},
		{-6, -4, 3, 2},
		{0, 5, 0, 1},
		{7, 1, 7, 1},
	}
	for i, test := range tests {
		n := NewNatural(test.p, test.q)
		p, q := n.Natural()
		if p != test.wantP || q != test.wantQ {
			t.Fatalf("%d %d/%d", i, p, q)
		}
	}
}

func TestNumberArithmetic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x, y Number
		op   string
		want Number
	}{
		{NewNatural(1, 2), NewNatural(1, 3), "add", NewNatural(5, 6)},
		{NewNatural(1, 2), NewNatural(-1, 2), "add", NewNatural(0, 1)},
		{NewNatural(2, 3), NewNatural(3, 4), "mul", NewNatural(1, 2)},
		{NewNatural(-2, 1), NewNatural(3, 1), "mul", NewNatural(-6, 1)},
		{NewFiniteField(3, 7), NewFiniteField(5, 7), "add", NewFiniteField(1, 7)},
		{NewFiniteField(3, 7), NewFiniteField(5, 7), "mul", NewFiniteField(1, 7)},
	}
	for i, test := range tests {
		var got Number
		switch test.op {
		case "add":
			got = test.x.Add(test.y)
		case "mul":
			got = test.x.Mul(test.y)
		}
		if !got.Equal(test.want) {
			t.Fatalf("%d %s", i, got)
		}
	}
}

func TestNumberOverflowPromotion(t *testing.T) {
	t.Parallel()
	big1 := NewNatural(math.MaxInt64, 1)

	sum := big1.Add(NewNatural(1, 1))
	if sum.Kind() != Large {
		t.Fatalf("%v", sum.Kind())
	}
	want := new(big.Rat).Add(big.NewRat(math.MaxInt64, 1), big.NewRat(1, 1))
	if sum.Rat().Cmp(want) != 0 {
		t.Fatalf("%s", sum)
	}

	prod := big1.Mul(NewNatural(2, 1))
	if prod.Kind() != Large {
		t.Fatalf("%v", prod.Kind())
	}
	want = new(big.Rat).Mul(big.NewRat(math.MaxInt64, 1), big.NewRat(2, 1))
	if prod.Rat().Cmp(want) != 0 {
		t.Fatalf("%s", prod)
	}

	// A large result that shrinks back into machine range is demoted.
	diff := sum.Add(NewNatural(-1, 1))
	if diff.Kind() != Natural {
		t.Fatalf("%v", diff.Kind())
	}
	if !diff.Equal(big1) {
		t.Fatalf("%s", diff)
	}
}

func TestNumberNeg(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    Number
		want Number
	}{
		{NewNatural(3, 2), NewNatural(-3, 2)},
		{NewNatural(0, 1), NewNatural(0, 1)},
		{NewFiniteField(3, 7), NewFiniteField(4, 7)},
		{NewFiniteField(0, 7), NewFiniteField(0, 7)},
	}
	for i, test := range tests {
		if got := test.x.Neg(); !got.Equal(test.want) {
			t.Fatalf("%d %s", i, got)
		}
	}
}

func TestNumberPredicates(t *testing.T) {
	t.Parallel()
	if !NewNatural(5, 1).IsInteger() {
		t.Fatalf("5 is an integer")
	}
	if NewNatural(5, 2).IsInteger() {
		t.Fatalf("5/2 is not an integer")
	}
	if i, ok := NewNatural(-4, 1).Int64(); !ok || i != -4 {
		t.Fatalf("%d %t", i, ok)
	}
	if _, ok := NewNatural(1, 2).Int64(); ok {
		t.Fatalf("1/2 has no integer value")
	}
	if _, ok := NewFiniteField(1, 7).Int64(); ok {
		t.Fatalf("residues have no integer value")
	}
}
