package poly

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/fumin/sym"
)

// ToPolynomial converts an expanded expression to a polynomial.
//
// Every factor of every summand must be a rational number, a variable, or
// a variable raised to a nonnegative integer power fitting the exponent
// width E. When varMap is nil the variable ordering is inferred in first
// encounter order; otherwise variables outside varMap are rejected with
// [ErrUnknownVariable].
//
// The expression is walked twice: a validation pass that also collects
// variables, then a parsing pass that accumulates monomials. A malformed
// input therefore never yields a partially built polynomial.
// If the input contains sums below products, consider expanding it, or
// use [ToRationalPolynomial].
func ToPolynomial[C Ring[C], E Exponent[E]](a *sym.Atom, field C, varMap []sym.Identifier) (*Polynomial[C, E], error) {
	vars := slices.Clone(varMap)
	allowNewVars := varMap == nil
	if a.Kind() == sym.AddAtom {
		for _, term := range a.Args() {
			if err := checkTerm[E](term, &vars, allowNewVars); err != nil {
				return nil, err
			}
		}
	} else {
		if err := checkTerm[E](a, &vars, allowNewVars); err != nil {
			return nil, err
		}
	}

	poly := New[C, E](field, vars)
	if a.Kind() == sym.AddAtom {
		for _, term := range a.Args() {
			if err := parseTerm(term, poly); err != nil {
				return nil, err
			}
		}
	} else {
		if err := parseTerm(a, poly); err != nil {
			return nil, err
		}
	}
	return poly, nil
}

func checkTerm[E Exponent[E]](term *sym.Atom, vars *[]sym.Identifier, allowNewVars bool) error {
	if term.Kind() == sym.MulAtom {
		for _, factor := range term.Args() {
			if err := checkFactor[E](factor, vars, allowNewVars); err != nil {
				return err
			}
		}
		return nil
	}
	return checkFactor[E](term, vars, allowNewVars)
}

func checkFactor[E Exponent[E]](factor *sym.Atom, vars *[]sym.Identifier, allowNewVars bool) error {
	switch factor.Kind() {
	case sym.NumAtom:
		if factor.NumberView().Kind() == sym.FiniteField {
			return errors.Wrap(ErrFiniteField, "")
		}
		return nil
	case sym.VarAtom:
		return checkVar(factor.Name(), vars, allowNewVars)
	case sym.FunAtom:
		return errors.Wrap(ErrUnsupportedFunction, "")
	case sym.PowAtom:
		base, exp := factor.BaseExp()
		if base.Kind() != sym.VarAtom {
			return errors.Wrap(ErrUnsupportedBase, "")
		}
		if err := checkVar(base.Name(), vars, allowNewVars); err != nil {
			return err
		}
		if exp.Kind() != sym.NumAtom {
			return errors.Wrap(ErrBadExponent, "exponent is not a number")
		}
		n := exp.NumberView()
		if n.Kind() == sym.FiniteField {
			return errors.Wrap(ErrFiniteField, "")
		}
		i, ok := n.Int64()
		if !ok || i < 0 {
			return errors.Wrap(ErrBadExponent, "exponent is negative or a fraction")
		}
		var e E
		if i > int64(^uint32(0)) {
			return errors.Wrap(ErrBadExponent, "exponent too large")
		}
		if _, ok := e.FromU32(uint32(i)); !ok {
			return errors.Wrapf(ErrBadExponent, "exponent %d does not fit the width", i)
		}
		return nil
	case sym.AddAtom:
		return errors.Wrap(ErrNestedSum, "")
	default: // nested Mul
		panic("nested product in polynomial conversion")
	}
}

func checkVar(id sym.Identifier, vars *[]sym.Identifier, allowNewVars bool) error {
	if slices.Contains(*vars, id) {
		return nil
	}
	if !allowNewVars {
		return errors.Wrap(ErrUnknownVariable, "")
	}
	*vars = append(*vars, id)
	return nil
}

func parseTerm[C Ring[C], E Exponent[E]](term *sym.Atom, poly *Polynomial[C, E]) error {
	coefficient := poly.field.NewOne()
	exponents := zeros[E](poly.NVars())

	if term.Kind() == sym.MulAtom {
		for _, factor := range term.Args() {
			var err error
			if coefficient, err = parseFactor(factor, poly, coefficient, exponents); err != nil {
				return err
			}
		}
	} else {
		var err error
		if coefficient, err = parseFactor(term, poly, coefficient, exponents); err != nil {
			return err
		}
	}

	poly.AppendMonomial(coefficient, exponents)
	return nil
}

func parseFactor[C Ring[C], E Exponent[E]](factor *sym.Atom, poly *Polynomial[C, E], coefficient C, exponents []E) (C, error) {
	switch factor.Kind() {
	case sym.NumAtom:
		c, err := poly.field.NewZero().FromNumber(factor.NumberView())
		if err != nil {
			return coefficient, err
		}
		return coefficient.Mul(coefficient, c), nil
	case sym.VarAtom:
		i := slices.Index(poly.varMap, factor.Name())
		var one E
		one, _ = one.FromU32(1)
		s, ok := exponents[i].CheckedAdd(one)
		if !ok {
			return coefficient, errors.Wrap(ErrBadExponent, "total degree exceeds the exponent width")
		}
		exponents[i] = s
		return coefficient, nil
	case sym.PowAtom:
		base, exp := factor.BaseExp()
		i := slices.Index(poly.varMap, base.Name())
		n, _ := exp.NumberView().Int64()
		e, _ := exponents[i].Zero().FromU32(uint32(n))
		s, ok := exponents[i].CheckedAdd(e)
		if !ok {
			return coefficient, errors.Wrap(ErrBadExponent, "total degree exceeds the exponent width")
		}
		exponents[i] = s
		return coefficient, nil
	default:
		panic("factor was not validated")
	}
}

// FromPolynomial writes p as an expression into out: a sum with one
// product per monomial, variables with exponent 1 emitted bare and the
// coefficient last. The result is dirty; normalize it before comparison.
func FromPolynomial[E Exponent[E]](p *Polynomial[*Rat, E], ws *sym.Workspace, out *sym.Atom) {
	mark := ws.Mark()
	defer ws.Release(mark)

	out.SetToAdd()
	for c, w := range p.Terms() {
		mul := ws.NewAtom()
		mul.SetToMul()
		for i, e := range w {
			if e.IsZero() {
				continue
			}
			v := ws.NewAtom()
			v.SetFromVar(p.varMap[i])
			if e.ToU32() == 1 {
				mul.Extend(v)
				continue
			}
			n := ws.NewAtom()
			n.SetFromNumber(sym.NewNatural(int64(e.ToU32()), 1))
			pw := ws.NewAtom()
			pw.SetFromBaseAndExp(v, n)
			mul.Extend(pw)
		}

		n := ws.NewAtom()
		n.SetFromNumber(sym.NewLarge(c.Rat))
		mul.Extend(n)
		mul.SetDirty(true)
		out.Extend(mul)
	}
	out.SetDirty(true)
}
