package poly

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/fumin/sym"
	"github.com/fumin/sym/parse"
	"github.com/fumin/sym/parse/scan"
)

// TokenToPolynomial converts a token tree into a polynomial without
// materializing an expression, for inputs whose term ordering already
// matches the source text.
//
// The accepted subset is: integer literals, quotients of two integer
// literals, identifiers, negation, multiplication, addition, and powers
// of an identifier by a positive integer. Identifiers must appear in
// varMap. Like the expression entry, the tree is validated in a first
// pass and parsed in a second, so no partially built polynomial is ever
// returned.
func TokenToPolynomial[C Ring[C], E Exponent[E]](n *parse.Node, field C, state *sym.State, varMap []sym.Identifier) (*Polynomial[C, E], error) {
	terms := tokenTerms(n, false, nil)
	for _, t := range terms {
		if err := checkTokenTerm[E](t.node, state, varMap); err != nil {
			return nil, err
		}
	}

	poly := New[C, E](field, varMap)
	for _, t := range terms {
		if err := parseTokenTerm(t, poly, state); err != nil {
			return nil, err
		}
	}
	return poly, nil
}

// tokenTerm is a summand of a token tree together with its sign.
type tokenTerm struct {
	node *parse.Node
	neg  bool
}

// tokenTerms flattens a token tree over additions, subtractions and
// parentheses into signed summands.
func tokenTerms(n *parse.Node, neg bool, terms []tokenTerm) []tokenTerm {
	switch {
	case n.Token.Type == scan.Parenthesis:
		return tokenTerms(n.Left, neg, terms)
	case n.Token.Type == scan.Operator && n.Token.Text == "+":
		terms = tokenTerms(n.Left, neg, terms)
		return tokenTerms(n.Right, neg, terms)
	case n.Token.Type == scan.Operator && n.Token.Text == "-":
		terms = tokenTerms(n.Left, neg, terms)
		return tokenTerms(n.Right, !neg, terms)
	default:
		return append(terms, tokenTerm{node: n, neg: neg})
	}
}

// tokenFactors flattens a summand over multiplications and parentheses.
func tokenFactors(n *parse.Node, factors []*parse.Node) []*parse.Node {
	switch {
	case n.Token.Type == scan.Parenthesis:
		return tokenFactors(n.Left, factors)
	case n.Token.Type == scan.Operator && n.Token.Text == "*":
		factors = tokenFactors(n.Left, factors)
		return tokenFactors(n.Right, factors)
	default:
		return append(factors, n)
	}
}

func checkTokenTerm[E Exponent[E]](n *parse.Node, state *sym.State, varMap []sym.Identifier) error {
	for _, f := range tokenFactors(n, nil) {
		if err := checkTokenFactor[E](f, state, varMap); err != nil {
			return err
		}
	}
	return nil
}

func checkTokenFactor[E Exponent[E]](n *parse.Node, state *sym.State, varMap []sym.Identifier) error {
	switch {
	case n.Token.Type == scan.Int:
		if _, err := sym.ParseNumber(n.Token.Text); err != nil {
			return errors.Wrap(ErrParse, n.Token.Text)
		}
		return nil
	case n.Token.Type == scan.Identifier:
		if !slices.Contains(varMap, state.GetOrInsert(n.Token.Text)) {
			return errors.Wrap(ErrUnknownVariable, n.Token.Text)
		}
		return nil
	case n.Token.Type == scan.Operator && n.Token.Text == "/":
		if n.Left == nil || n.Right == nil || n.Left.Token.Type != scan.Int || n.Right.Token.Type != scan.Int {
			return errors.Errorf("quotient is not a rational literal: %s", parse.Tree(n))
		}
		if _, err := sym.ParseNumber(n.Left.Token.Text); err != nil {
			return errors.Wrap(ErrParse, n.Left.Token.Text)
		}
		if _, err := sym.ParseNumber(n.Right.Token.Text); err != nil {
			return errors.Wrap(ErrParse, n.Right.Token.Text)
		}
		return nil
	case n.Token.Type == scan.Operator && n.Token.Text == "^":
		if n.Left == nil || n.Right == nil || n.Left.Token.Type != scan.Identifier || n.Right.Token.Type != scan.Int {
			return errors.Errorf("unsupported power: %s", parse.Tree(n))
		}
		if !slices.Contains(varMap, state.GetOrInsert(n.Left.Token.Text)) {
			return errors.Wrap(ErrUnknownVariable, n.Left.Token.Text)
		}
		num, err := sym.ParseNumber(n.Right.Token.Text)
		if err != nil {
			return errors.Wrap(ErrParse, n.Right.Token.Text)
		}
		i, ok := num.Int64()
		if !ok || i < 1 || i > int64(^uint32(0)) {
			return errors.Wrap(ErrBadExponent, "exponent must be a positive integer")
		}
		var e E
		if _, ok := e.FromU32(uint32(i)); !ok {
			return errors.Wrapf(ErrBadExponent, "exponent %d does not fit the width", i)
		}
		return nil
	default:
		return errors.Errorf("unsupported expression: %s", parse.Tree(n))
	}
}

func parseTokenTerm[C Ring[C], E Exponent[E]](t tokenTerm, poly *Polynomial[C, E], state *sym.State) error {
	coefficient := poly.field.NewOne()
	if t.neg {
		coefficient = coefficient.Neg(coefficient)
	}
	exponents := zeros[E](poly.NVars())

	for _, f := range tokenFactors(t.node, nil) {
		var err error
		if coefficient, err = parseTokenFactor(f, poly, state, coefficient, exponents); err != nil {
			return err
		}
	}
	poly.AppendMonomial(coefficient, exponents)
	return nil
}

func parseTokenFactor[C Ring[C], E Exponent[E]](n *parse.Node, poly *Polynomial[C, E], state *sym.State, coefficient C, exponents []E) (C, error) {
	bump := func(id sym.Identifier, k uint32) (C, error) {
		i := slices.Index(poly.varMap, id)
		var e E
		e, _ = e.FromU32(k)
		s, ok := exponents[i].CheckedAdd(e)
		if !ok {
			return coefficient, errors.Wrap(ErrBadExponent, "total degree exceeds the exponent width")
		}
		exponents[i] = s
		return coefficient, nil
	}

	switch {
	case n.Token.Type == scan.Int:
		num, _ := sym.ParseNumber(n.Token.Text)
		c, err := poly.field.NewZero().FromNumber(num)
		if err != nil {
			return coefficient, err
		}
		return coefficient.Mul(coefficient, c), nil
	case n.Token.Type == scan.Identifier:
		return bump(state.GetOrInsert(n.Token.Text), 1)
	case n.Token.Type == scan.Operator && n.Token.Text == "/":
		p, _ := sym.ParseNumber(n.Left.Token.Text)
		q, _ := sym.ParseNumber(n.Right.Token.Text)
		if q.IsZero() {
			return coefficient, errors.Wrap(ErrParse, "division by zero")
		}
		c, err := poly.field.NewZero().FromNumber(p.Mul(q.Inv()))
		if err != nil {
			return coefficient, err
		}
		return coefficient.Mul(coefficient, c), nil
	default: // "^", validated beforehand
		num, _ := sym.ParseNumber(n.Right.Token.Text)
		i, _ := num.Int64()
		return bump(state.GetOrInsert(n.Left.Token.Text), uint32(i))
	}
}

// TokenToRationalPolynomial converts a token tree into a rational
// polynomial, skipping the intermediate expression when the source is
// already in polynomial shape. Powers and shapes outside the token subset
// delegate to the expression entry by materializing an atom via
// [sym.ToAtom].
func TokenToRationalPolynomial[E Exponent[E]](n *parse.Node, ws *sym.Workspace, state *sym.State, field *Rat, varMap []sym.Identifier) (_ *RationalPolynomial[E], err error) {
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

	// See if the tree can be cast into a polynomial using the fast routine.
	if num, err := TokenToPolynomial[*Rat, E](n, field, state, varMap); err == nil {
		den := One[*Rat, E](field, num.varMap)
		return FromNumDen(num, den), nil
	}

	tok := n.Token
	switch {
	case tok.Type == scan.Parenthesis:
		return TokenToRationalPolynomial[E](n.Left, ws, state, field, varMap)
	case tok.Type == scan.Int || tok.Type == scan.Identifier:
		num, err := TokenToPolynomial[*Rat, E](n, field, state, varMap)
		if err != nil {
			return nil, err
		}
		den := One[*Rat, E](field, num.varMap)
		return FromNumDen(num, den), nil
	case tok.Type == scan.Operator && tok.Text == "/":
		l, err := TokenToRationalPolynomial[E](n.Left, ws, state, field, varMap)
		if err != nil {
			return nil, err
		}
		r, err := TokenToRationalPolynomial[E](n.Right, ws, state, field, varMap)
		if err != nil {
			return nil, err
		}
		return l.Mul(r.Inv()), nil
	case tok.Type == scan.Operator && tok.Text == "*":
		r := OneRational[E](field, varMap)
		for _, f := range tokenFactors(n, nil) {
			fr, err := TokenToRationalPolynomial[E](f, ws, state, field, varMap)
			if err != nil {
				return nil, err
			}
			r = r.Mul(fr)
		}
		return r, nil
	case tok.Type == scan.Operator && (tok.Text == "+" || tok.Text == "-"):
		r := NewRational[E](field, varMap)
		for _, t := range tokenTerms(n, false, nil) {
			tr, err := TokenToRationalPolynomial[E](t.node, ws, state, field, varMap)
			if err != nil {
				return nil, err
			}
			if t.neg {
				tr = tr.Neg()
			}
			r = r.Add(tr)
		}
		return r, nil
	default:
		// A power or another shape the fast routine rejected: go through
		// the expression tree entry.
		mark := ws.Mark()
		defer ws.Release(mark)
		raw, expr := ws.NewAtom(), ws.NewAtom()
		if err := sym.ToAtom(n, state, ws, raw); err != nil {
			return nil, errors.Wrap(err, "")
		}
		raw.Normalize(ws, state, expr)
		return ToRationalPolynomial[E](expr, ws, state, field, varMap)
	}
}
