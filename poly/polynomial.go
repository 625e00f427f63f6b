package poly

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/jba/omap"

	"github.com/fumin/sym"
)

// A Polynomial is a sparse multivariate polynomial over the coefficient
// ring C with exponents of width E.
//
// Terms are stored under the [Deglex] monomial order. No two terms share
// an exponent vector and no stored coefficient is zero; AppendMonomial
// maintains both invariants. The variable map is fixed at construction:
// position i of every exponent vector belongs to VarMap()[i].
type Polynomial[C Ring[C], E Exponent[E]] struct {
	field  C
	varMap []sym.Identifier
	m      *omap.MapFunc[[]E, C]
}

// New returns the zero polynomial in the variables of varMap.
func New[C Ring[C], E Exponent[E]](field C, varMap []sym.Identifier) *Polynomial[C, E] {
	return &Polynomial[C, E]{
		field:  field,
		varMap: slices.Clone(varMap),
		m:      omap.NewMapFunc[[]E, C](Deglex[E]),
	}
}

// One returns the constant polynomial 1 in the variables of varMap.
func One[C Ring[C], E Exponent[E]](field C, varMap []sym.Identifier) *Polynomial[C, E] {
	x := New[C, E](field, varMap)
	x.AppendMonomial(field.NewOne(), zeros[E](len(varMap)))
	return x
}

// Constant returns the constant polynomial c in the variables of varMap.
func Constant[C Ring[C], E Exponent[E]](field C, c C, varMap []sym.Identifier) *Polynomial[C, E] {
	x := New[C, E](field, varMap)
	x.AppendMonomial(c, zeros[E](len(varMap)))
	return x
}

// Field returns the coefficient ring witness of x.
func (x *Polynomial[C, E]) Field() C { return x.field }

// VarMap returns the variable ordering of x. The caller must not modify it.
func (x *Polynomial[C, E]) VarMap() []sym.Identifier { return x.varMap }

// NVars returns the number of indeterminates of x.
func (x *Polynomial[C, E]) NVars() int { return len(x.varMap) }

// Len reports the number of terms in x.
func (x *Polynomial[C, E]) Len() int { return x.m.Len() }

// IsZero reports whether x has no terms.
func (x *Polynomial[C, E]) IsZero() bool { return x.m.Len() == 0 }

// IsConstant reports whether x has no term of positive degree.
func (x *Polynomial[C, E]) IsConstant() bool {
	switch x.m.Len() {
	case 0:
		return true
	case 1:
		w, _ := x.m.Max()
		for _, e := range w {
			if !e.IsZero() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AppendMonomial adds the term coeff*exponents to x, merging with an
// existing term of the same exponent vector and dropping terms whose
// coefficient cancels to zero.
func (x *Polynomial[C, E]) AppendMonomial(coeff C, exponents []E) {
	if len(exponents) != len(x.varMap) {
		panic(fmt.Sprintf("monomial has %d exponents, polynomial has %d variables", len(exponents), len(x.varMap)))
	}
	if coeff.IsZero() {
		return
	}

	exponents = slices.Clone(exponents)
	c, ok := x.m.Get(exponents)
	if !ok {
		c = x.field.NewZero()
	}
	c = c.Add(c, coeff)
	if c.IsZero() {
		x.m.Delete(exponents)
	} else {
		x.m.Set(exponents, c)
	}
}

// Terms iterates the terms of x, leading monomial first.
// The yielded exponent slices must not be modified.
func (x *Polynomial[C, E]) Terms() iter.Seq2[C, []E] {
	return func(yield func(C, []E) bool) {
		for w, c := range x.m.Backward() {
			if !yield(c, w) {
				return
			}
		}
	}
}

// LeadingTerm returns the coefficient and exponent vector of the leading
// monomial. x must be nonzero.
func (x *Polynomial[C, E]) LeadingTerm() (C, []E) {
	w, ok := x.m.Max()
	if !ok {
		panic("zero polynomial has no terms")
	}
	c, _ := x.m.Get(w)
	return c, w
}

// Equal reports whether x and y have the same variable map, coefficients
// and monomials.
func (x *Polynomial[C, E]) Equal(y *Polynomial[C, E]) bool {
	if !slices.Equal(x.varMap, y.varMap) {
		return false
	}
	if x.m.Len() != y.m.Len() {
		return false
	}
	for i := range x.m.Len() {
		xw, xc := x.m.At(i)
		yw, yc := y.m.At(i)
		if slices.CompareFunc(xw, yw, func(a, b E) int { return a.Cmp(b) }) != 0 {
			return false
		}
		if !xc.Equal(yc) {
			return false
		}
	}
	return true
}

// Set sets z to x and returns z.
func (z *Polynomial[C, E]) Set(x *Polynomial[C, E]) *Polynomial[C, E] {
	if z == x {
		return z
	}
	z.field = x.field
	z.varMap = slices.Clone(x.varMap)
	z.m = omap.NewMapFunc[[]E, C](Deglex[E])
	for w, c := range x.m.All() {
		z.AppendMonomial(c, w)
	}
	return z
}

// Add sets z to the sum x+y and returns z.
// x and y must have the same variable map; see [RationalPolynomial.UnifyVarMap].
func (z *Polynomial[C, E]) Add(x, y *Polynomial[C, E]) *Polynomial[C, E] {
	sameVarMap(x, y)
	if y == z {
		x, y = y, x
	}
	if z != x {
		z.Set(x)
	}
	for w, c := range y.m.All() {
		z.AppendMonomial(c, w)
	}
	return z
}

// Neg sets z to -x and returns z.
func (z *Polynomial[C, E]) Neg(x *Polynomial[C, E]) *Polynomial[C, E] {
	if z != x {
		z.Set(x)
	}
	for w, c := range z.m.All() {
		c = c.Neg(c)
		z.m.Set(w, c)
	}
	return z
}

// Mul sets z to the product x*y and returns z.
// z must not alias x or y.
// Mul panics when an exponent exceeds the width E; conversion entry
// points report such an overflow as [ErrBadExponent].
func (z *Polynomial[C, E]) Mul(x, y *Polynomial[C, E]) *Polynomial[C, E] {
	sameVarMap(x, y)
	if z == x || z == y {
		panic("z aliases an operand")
	}

	z.field = x.field
	z.varMap = slices.Clone(x.varMap)
	z.m = omap.NewMapFunc[[]E, C](Deglex[E])
	w := make([]E, len(x.varMap))
	for xw, xc := range x.m.Backward() {
		for yw, yc := range y.m.Backward() {
			for i := range xw {
				s, ok := xw[i].CheckedAdd(yw[i])
				if !ok {
					panic("exponent overflow")
				}
				w[i] = s
			}
			c := z.field.NewZero()
			c = c.Mul(xc, yc)
			z.AppendMonomial(c, w)
		}
	}
	return z
}

// MulScalar sets z to scalar*x and returns z.
func (z *Polynomial[C, E]) MulScalar(scalar C, x *Polynomial[C, E]) *Polynomial[C, E] {
	if scalar.IsZero() {
		z.field = x.field
		z.varMap = slices.Clone(x.varMap)
		z.m = omap.NewMapFunc[[]E, C](Deglex[E])
		return z
	}
	if z != x {
		z.Set(x)
	}
	for w, c := range z.m.All() {
		c = c.Mul(scalar, c)
		z.m.Set(w, c)
	}
	return z
}

// String renders x with variables named by stringer.
func (x *Polynomial[C, E]) String(stringer func(sym.Identifier) string) string {
	if x.Len() == 0 {
		return "0"
	}
	var b strings.Builder
	first := true
	for c, w := range x.Terms() {
		s := c.String()
		if s[0] != '-' && !first {
			b.WriteByte('+')
		}
		deg := uint32(0)
		for _, e := range w {
			deg += e.ToU32()
		}
		switch {
		case deg == 0:
			b.WriteString(s)
		case s == "1":
			// coefficient elided
		case s == "-1":
			b.WriteByte('-')
		default:
			b.WriteString(s)
			b.WriteByte('*')
		}
		sep := false
		for i, e := range w {
			if e.IsZero() {
				continue
			}
			if sep {
				b.WriteByte('*')
			}
			sep = true
			b.WriteString(stringer(x.varMap[i]))
			if e.ToU32() > 1 {
				fmt.Fprintf(&b, "^%d", e.ToU32())
			}
		}
		first = false
	}
	return b.String()
}

func sameVarMap[C Ring[C], E Exponent[E]](x, y *Polynomial[C, E]) {
	if !slices.Equal(x.varMap, y.varMap) {
		panic("variable maps differ; unify them first")
	}
}

func zeros[E Exponent[E]](n int) []E {
	return make([]E, n)
}
