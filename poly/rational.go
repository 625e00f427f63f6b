package poly

import (
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/fumin/sym"
)

// A RationalPolynomial is a quotient of multivariate polynomials over the
// rational field, kept in canonical form: numerator and denominator are
// coprime, the denominator is nonzero and monic, and both share a
// variable map.
type RationalPolynomial[E Exponent[E]] struct {
	num *Polynomial[*Rat, E]
	den *Polynomial[*Rat, E]
}

// NewRational returns 0/1 in the variables of varMap.
func NewRational[E Exponent[E]](field *Rat, varMap []sym.Identifier) *RationalPolynomial[E] {
	return &RationalPolynomial[E]{
		num: New[*Rat, E](field, varMap),
		den: One[*Rat, E](field, varMap),
	}
}

// OneRational returns 1/1 in the variables of varMap.
func OneRational[E Exponent[E]](field *Rat, varMap []sym.Identifier) *RationalPolynomial[E] {
	return &RationalPolynomial[E]{
		num: One[*Rat, E](field, varMap),
		den: One[*Rat, E](field, varMap),
	}
}

// FromNumDen returns num/den in canonical form: the fraction is reduced
// by the polynomial gcd and scaled so the denominator is monic.
func FromNumDen[E Exponent[E]](num, den *Polynomial[*Rat, E]) *RationalPolynomial[E] {
	num, den = unify(num, den)
	if den.IsZero() {
		panic("zero denominator")
	}
	if num.IsZero() {
		return NewRational[E](num.field, num.varMap)
	}

	g := Gcd(num, den)
	if !g.IsConstant() {
		num, den = divExact(num, g), divExact(den, g)
	}
	lc, _ := den.LeadingTerm()
	inv := den.field.NewZero().Inv(lc)
	num = New[*Rat, E](num.field, num.varMap).MulScalar(inv, num)
	den = New[*Rat, E](den.field, den.varMap).MulScalar(inv, den)
	return &RationalPolynomial[E]{num: num, den: den}
}

// Num returns the numerator of x.
func (x *RationalPolynomial[E]) Num() *Polynomial[*Rat, E] { return x.num }

// Den returns the denominator of x.
func (x *RationalPolynomial[E]) Den() *Polynomial[*Rat, E] { return x.den }

// IsZero reports whether x is zero.
func (x *RationalPolynomial[E]) IsZero() bool { return x.num.IsZero() }

// Equal reports whether x and y are equal in canonical form.
func (x *RationalPolynomial[E]) Equal(y *RationalPolynomial[E]) bool {
	return x.num.Equal(y.num) && x.den.Equal(y.den)
}

// UnifyVarMap expands the variable maps of x and y to their union, padding
// absent indeterminates with zero exponents, so the maps coincide.
func (x *RationalPolynomial[E]) UnifyVarMap(y *RationalPolynomial[E]) {
	varMap := unionVarMap(x.num.varMap, y.num.varMap)
	x.num = remap(x.num, varMap)
	x.den = remap(x.den, varMap)
	y.num = remap(y.num, varMap)
	y.den = remap(y.den, varMap)
}

// Add returns the sum x+y in canonical form.
func (x *RationalPolynomial[E]) Add(y *RationalPolynomial[E]) *RationalPolynomial[E] {
	x.UnifyVarMap(y)
	f := x.num.field
	t1 := New[*Rat, E](f, x.num.varMap).Mul(x.num, y.den)
	t2 := New[*Rat, E](f, x.num.varMap).Mul(y.num, x.den)
	num := t1.Add(t1, t2)
	den := New[*Rat, E](f, x.num.varMap).Mul(x.den, y.den)
	return FromNumDen(num, den)
}

// Mul returns the product x*y in canonical form.
func (x *RationalPolynomial[E]) Mul(y *RationalPolynomial[E]) *RationalPolynomial[E] {
	x.UnifyVarMap(y)
	f := x.num.field
	num := New[*Rat, E](f, x.num.varMap).Mul(x.num, y.num)
	den := New[*Rat, E](f, x.num.varMap).Mul(x.den, y.den)
	return FromNumDen(num, den)
}

// Neg returns -x.
func (x *RationalPolynomial[E]) Neg() *RationalPolynomial[E] {
	f := x.num.field
	num := New[*Rat, E](f, x.num.varMap).Neg(x.num)
	den := New[*Rat, E](f, x.num.varMap).Set(x.den)
	return &RationalPolynomial[E]{num: num, den: den}
}

// Inv returns 1/x. x must be nonzero.
func (x *RationalPolynomial[E]) Inv() *RationalPolynomial[E] {
	if x.num.IsZero() {
		panic("division by zero")
	}
	return FromNumDen(x.den, x.num)
}

// Pow returns x^n computed by repeated squaring.
func (x *RationalPolynomial[E]) Pow(n uint64) *RationalPolynomial[E] {
	r := OneRational[E](x.num.field, x.num.varMap)
	base := x
	for n > 0 {
		if n&1 == 1 {
			r = r.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return r
}

// String renders x with variables named by stringer.
func (x *RationalPolynomial[E]) String(stringer func(sym.Identifier) string) string {
	if x.den.IsConstant() {
		if lc, _ := x.den.LeadingTerm(); lc.Equal(lc.NewOne()) {
			return x.num.String(stringer)
		}
	}
	return "(" + x.num.String(stringer) + ")/(" + x.den.String(stringer) + ")"
}

// ToRationalPolynomial lifts an expression into a rational polynomial.
//
// Polynomial subtrees take the [ToPolynomial] fast path. A power with
// integer exponent outside {-1, 1} is expanded through [sym.Atom.Expand];
// when expansion is a no-op the base is lifted and raised by repeated
// squaring, inverting first for negative exponents. Functions have no
// polynomial embedding and yield [ErrUnsupportedFunction]. Sums and
// products fold their children through UnifyVarMap.
func ToRationalPolynomial[E Exponent[E]](a *sym.Atom, ws *sym.Workspace, state *sym.State, field *Rat, varMap []sym.Identifier) (_ *RationalPolynomial[E], err error) {
	// Rational arithmetic panics when a product exceeds the exponent
	// width; report that as ErrBadExponent like the polynomial path.
	defer func() {
		if p := recover(); p != nil {
			if p != "exponent overflow" {
				panic(p)
			}
			err = errors.Wrap(ErrBadExponent, "total degree exceeds the exponent width")
		}
	}()

	// See if the subtree can be cast into a polynomial using the fast routine.
	num, fastErr := ToPolynomial[*Rat, E](a, field, varMap)
	if fastErr == nil {
		den := One[*Rat, E](field, num.varMap)
		return FromNumDen(num, den), nil
	}

	switch a.Kind() {
	case sym.NumAtom, sym.VarAtom:
		return nil, fastErr
	case sym.PowAtom:
		base, exp := a.BaseExp()
		if exp.Kind() != sym.NumAtom {
			return nil, errors.Wrap(ErrBadExponent, "exponent is not a number")
		}
		n, ok := exp.NumberView().Int64()
		if !ok || n == math.MinInt64 {
			return nil, errors.Wrap(ErrBadExponent, "exponent is not an integer")
		}

		if n != 1 && n != -1 {
			mark := ws.Mark()
			defer ws.Release(mark)
			h := ws.NewAtom()
			if a.Expand(ws, state, h) {
				return ToRationalPolynomial[E](h, ws, state, field, varMap)
			}
			// Expansion did not change the input: the base is a single
			// variable or monomial, or the exponent is negative or too
			// large to multiply out. Lift the base and raise it.
			r, err := ToRationalPolynomial[E](base, ws, state, field, varMap)
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return r.Inv().Pow(uint64(-n)), nil
			}
			return r.Pow(uint64(n)), nil
		}

		r, err := ToRationalPolynomial[E](base, ws, state, field, varMap)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return r.Inv(), nil
		}
		return r, nil
	case sym.FunAtom:
		return nil, errors.Wrap(ErrUnsupportedFunction, "")
	case sym.MulAtom:
		r := OneRational[E](field, varMap)
		for _, arg := range a.Args() {
			argR, err := ToRationalPolynomial[E](arg, ws, state, field, varMap)
			if err != nil {
				return nil, err
			}
			r = r.Mul(argR)
		}
		return r, nil
	default: // AddAtom
		r := NewRational[E](field, varMap)
		for _, arg := range a.Args() {
			argR, err := ToRationalPolynomial[E](arg, ws, state, field, varMap)
			if err != nil {
				return nil, err
			}
			r = r.Add(argR)
		}
		return r, nil
	}
}

func unify[E Exponent[E]](x, y *Polynomial[*Rat, E]) (*Polynomial[*Rat, E], *Polynomial[*Rat, E]) {
	if slices.Equal(x.varMap, y.varMap) {
		return x, y
	}
	varMap := unionVarMap(x.varMap, y.varMap)
	return remap(x, varMap), remap(y, varMap)
}

// unionVarMap merges two variable orderings, appending the variables of y
// absent from x in their first encounter order.
func unionVarMap(x, y []sym.Identifier) []sym.Identifier {
	u := slices.Clone(x)
	for _, id := range y {
		if !slices.Contains(u, id) {
			u = append(u, id)
		}
	}
	return u
}

// remap rebuilds p over varMap, which must contain every variable of p.
func remap[E Exponent[E]](p *Polynomial[*Rat, E], varMap []sym.Identifier) *Polynomial[*Rat, E] {
	if slices.Equal(p.varMap, varMap) {
		return p
	}
	idx := make([]int, len(p.varMap))
	for i, id := range p.varMap {
		idx[i] = slices.Index(varMap, id)
		if idx[i] < 0 {
			panic("variable map is not a superset")
		}
	}

	q := New[*Rat, E](p.field, varMap)
	w := make([]E, len(varMap))
	for c, pw := range p.Terms() {
		clear(w)
		for i, e := range pw {
			w[idx[i]] = e
		}
		q.AppendMonomial(c, w)
	}
	return q
}
