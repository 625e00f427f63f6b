package sym

import (
	"slices"
)

// maxNumericPow bounds the exponents the normalizer evaluates numerically,
// so that x^1000000 does not materialize a million digit rational.
const maxNumericPow = 256

// Normalize writes the canonical form of a into out.
// Nested sums and products are flattened, like terms and equal bases are
// merged, children are sorted, and zeros and ones are eliminated.
// Normalization is idempotent: normalizing a clean atom copies it.
func (a *Atom) Normalize(ws *Workspace, state *State, out *Atom) {
	mark := ws.Mark()
	defer ws.Release(mark)
	a.normalize(ws, state, out)
}

func (a *Atom) normalize(ws *Workspace, state *State, out *Atom) {
	if !a.dirty {
		out.Set(a)
		return
	}

	switch a.kind {
	case NumAtom:
		out.SetFromNumber(a.num)
	case VarAtom:
		out.SetFromVar(a.name)
	case FunAtom:
		out.SetFromName(a.name)
		arg := ws.NewAtom()
		for _, x := range a.args {
			x.normalize(ws, state, arg)
			out.AddArg(arg)
		}
	case PowAtom:
		a.normalizePow(ws, state, out)
	case MulAtom:
		a.normalizeMul(ws, state, out)
	case AddAtom:
		a.normalizeAdd(ws, state, out)
	}
	out.dirty = false
}

func (a *Atom) normalizePow(ws *Workspace, state *State, out *Atom) {
	base := ws.NewAtom()
	exp := ws.NewAtom()
	a.args[0].normalize(ws, state, base)
	a.args[1].normalize(ws, state, exp)

	if exp.kind == NumAtom {
		en := exp.num
		switch {
		case en.Kind() != FiniteField && en.IsZero():
			out.SetFromNumber(NewNatural(1, 1))
			return
		case en.Kind() != FiniteField && en.IsOne():
			out.Set(base)
			return
		}
		if base.kind == NumAtom {
			if n, ok := en.Int64(); ok && abs64(n) <= maxNumericPow {
				if res, ok := numPow(base.num, n); ok {
					out.SetFromNumber(res)
					return
				}
			}
		}
	}
	if base.kind == NumAtom && base.num.Kind() != FiniteField {
		switch {
		case base.num.IsOne():
			out.SetFromNumber(NewNatural(1, 1))
			return
		case base.num.IsZero() && exp.kind == NumAtom && exp.num.Kind() != FiniteField && exp.num.Rat().Sign() > 0:
			out.SetFromNumber(NewNatural(0, 1))
			return
		}
	}
	out.SetFromBaseAndExp(base, exp)
}

// numPow evaluates b^n for integer n, reporting false when the power has
// no exact value (negative power of zero, or of a finite field residue).
func numPow(b Number, n int64) (Number, bool) {
	if n < 0 {
		if b.Kind() == FiniteField || b.IsZero() {
			return Number{}, false
		}
		b, n = b.Inv(), -n
	}
	res := NewNatural(1, 1)
	if b.Kind() == FiniteField {
		_, p := b.Residue()
		res = NewFiniteField(1, p)
	}
	for range n {
		res = res.Mul(b)
	}
	return res, true
}

// factor is a base raised to an exponent, the unit of product merging.
type factor struct {
	base *Atom
	exp  *Atom
}

var atomOne = &Atom{kind: NumAtom, num: Number{kind: Natural, p: 1, q: 1}}

// cmpFactors orders the children of a product by base first, exponent
// second, so x and x^2 sort together.
func cmpFactors(x, y *Atom) int {
	bx, ex := splitPow(x)
	by, ey := splitPow(y)
	if c := cmpAtoms(bx, by); c != 0 {
		return c
	}
	return cmpAtoms(ex, ey)
}

func splitPow(a *Atom) (base, exp *Atom) {
	if a.kind == PowAtom {
		return a.args[0], a.args[1]
	}
	return a, atomOne
}

func (a *Atom) normalizeMul(ws *Workspace, state *State, out *Atom) {
	coeff := NewNatural(1, 1)
	var factors []factor

	norm := ws.NewAtom()
	var gather func(x *Atom)
	gather = func(x *Atom) {
		switch x.kind {
		case MulAtom:
			for _, arg := range x.args {
				gather(arg)
			}
		case NumAtom:
			coeff = coeff.Mul(x.num)
		case PowAtom:
			b, e := x.BaseExp()
			mergeFactor(ws, state, &factors, b, e)
		default:
			one := ws.NewAtom()
			one.SetFromNumber(NewNatural(1, 1))
			mergeFactor(ws, state, &factors, x, one)
		}
	}
	for _, arg := range a.args {
		arg.normalize(ws, state, norm)
		gather(norm)
		norm = ws.NewAtom()
	}

	if coeff.Kind() != FiniteField && coeff.IsZero() {
		out.SetFromNumber(coeff)
		return
	}

	// Rebuild each base^exp, dropping exponents that cancelled to zero.
	args := make([]*Atom, 0, len(factors)+1)
	for _, f := range factors {
		x := ws.NewAtom()
		switch {
		case f.exp.kind == NumAtom && f.exp.num.Kind() != FiniteField && f.exp.num.IsZero():
			continue
		case f.exp.kind == NumAtom && f.exp.num.Kind() != FiniteField && f.exp.num.IsOne():
			x.Set(f.base)
		default:
			pw := ws.NewAtom()
			pw.SetFromBaseAndExp(f.base, f.exp)
			pw.dirty = true
			pw.normalize(ws, state, x)
			if x.kind == NumAtom {
				coeff = coeff.Mul(x.num)
				continue
			}
		}
		args = append(args, x)
	}
	slices.SortStableFunc(args, cmpFactors)

	switch {
	case len(args) == 0:
		out.SetFromNumber(coeff)
	case len(args) == 1 && coeff.IsOne():
		out.Set(args[0])
	default:
		out.SetToMul()
		for _, x := range args {
			out.Extend(x)
		}
		if !coeff.IsOne() {
			c := ws.NewAtom()
			c.SetFromNumber(coeff)
			out.Extend(c)
		}
	}
}

// mergeFactor adds base^exp to the factor list, accumulating the exponent
// when the base is already present.
func mergeFactor(ws *Workspace, state *State, factors *[]factor, base, exp *Atom) {
	for i, f := range *factors {
		if !f.base.Equal(base) {
			continue
		}
		sum := ws.NewAtom()
		sum.SetToAdd()
		sum.Extend(f.exp)
		sum.Extend(exp)
		sum.dirty = true
		merged := ws.NewAtom()
		sum.normalize(ws, state, merged)
		(*factors)[i].exp = merged
		return
	}
	b, e := ws.NewAtom(), ws.NewAtom()
	b.Set(base)
	e.Set(exp)
	*factors = append(*factors, factor{base: b, exp: e})
}

func (a *Atom) normalizeAdd(ws *Workspace, state *State, out *Atom) {
	constant := NewNatural(0, 1)
	type term struct {
		coeff Number
		key   *Atom
	}
	var terms []term

	add := func(c Number, key *Atom) {
		for i, t := range terms {
			if t.key.Equal(key) {
				terms[i].coeff = t.coeff.Add(c)
				return
			}
		}
		k := ws.NewAtom()
		k.Set(key)
		terms = append(terms, term{coeff: c, key: k})
	}

	norm := ws.NewAtom()
	var gather func(x *Atom)
	gather = func(x *Atom) {
		switch x.kind {
		case AddAtom:
			for _, arg := range x.args {
				gather(arg)
			}
		case NumAtom:
			constant = constant.Add(x.num)
		case MulAtom:
			// A clean product holds its numeric coefficient last.
			c, rest := NewNatural(1, 1), x.args
			if last := x.args[len(x.args)-1]; last.kind == NumAtom {
				c, rest = last.num, x.args[:len(x.args)-1]
			}
			if len(rest) == 1 {
				add(c, rest[0])
				return
			}
			key := ws.NewAtom()
			key.SetToMul()
			for _, f := range rest {
				key.Extend(f)
			}
			add(c, key)
		default:
			one := NewNatural(1, 1)
			add(one, x)
		}
	}
	for _, arg := range a.args {
		arg.normalize(ws, state, norm)
		gather(norm)
		norm = ws.NewAtom()
	}

	slices.SortStableFunc(terms, func(s, t term) int { return cmpAtoms(s.key, t.key) })
	args := make([]*Atom, 0, len(terms)+1)
	for _, t := range terms {
		if t.coeff.Kind() != FiniteField && t.coeff.IsZero() {
			continue
		}
		x := ws.NewAtom()
		switch {
		case t.coeff.IsOne():
			x.Set(t.key)
		case t.key.kind == MulAtom:
			x.Set(t.key)
			c := ws.NewAtom()
			c.SetFromNumber(t.coeff)
			x.Extend(c)
		default:
			x.SetToMul()
			x.Extend(t.key)
			c := ws.NewAtom()
			c.SetFromNumber(t.coeff)
			x.Extend(c)
		}
		args = append(args, x)
	}
	if !constant.IsZero() {
		c := ws.NewAtom()
		c.SetFromNumber(constant)
		args = append(args, c)
	}

	switch len(args) {
	case 0:
		out.SetFromNumber(NewNatural(0, 1))
	case 1:
		out.Set(args[0])
	default:
		out.SetToAdd()
		for _, x := range args {
			out.Extend(x)
		}
	}
}

// Expand distributes products over sums and multiplies out natural number
// powers of sums, writing the normalized result into out.
// It reports whether the expanded form differs structurally from the
// normalization of a; when it reports false, out equals that normalization.
func (a *Atom) Expand(ws *Workspace, state *State, out *Atom) bool {
	mark := ws.Mark()
	defer ws.Release(mark)

	in := ws.NewAtom()
	a.normalize(ws, state, in)

	terms := expandTerms(in, ws)
	sum := ws.NewAtom()
	sum.SetToAdd()
	for _, t := range terms {
		sum.Extend(t)
	}
	sum.dirty = true
	sum.normalize(ws, state, out)

	return !out.Equal(in)
}

// expandTerms returns the summands of the expanded form of a clean atom.
func expandTerms(a *Atom, ws *Workspace) []*Atom {
	switch a.kind {
	case AddAtom:
		var terms []*Atom
		for _, arg := range a.args {
			terms = append(terms, expandTerms(arg, ws)...)
		}
		return terms
	case MulAtom:
		terms := []*Atom{nil}
		for _, arg := range a.args {
			terms = crossMul(terms, expandTerms(arg, ws), ws)
		}
		return terms
	case PowAtom:
		base, exp := a.BaseExp()
		if exp.kind != NumAtom {
			return []*Atom{a}
		}
		n, ok := exp.num.Int64()
		if !ok || n < 2 || n > maxNumericPow {
			return []*Atom{a}
		}
		bt := expandTerms(base, ws)
		if len(bt) == 1 {
			return []*Atom{a}
		}
		terms := bt
		for range n - 1 {
			terms = crossMul(terms, bt, ws)
		}
		return terms
	default:
		return []*Atom{a}
	}
}

// crossMul multiplies two sums term by term. A nil slot is the unit.
func crossMul(xs, ys []*Atom, ws *Workspace) []*Atom {
	prod := make([]*Atom, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			if x == nil {
				prod = append(prod, y)
				continue
			}
			m := ws.NewAtom()
			m.SetToMul()
			m.Extend(x)
			m.Extend(y)
			m.dirty = true
			prod = append(prod, m)
		}
	}
	return prod
}
