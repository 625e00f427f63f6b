package poly

// Gcd returns the monic greatest common divisor of a and b over the
// rational coefficient field. a and b must share a variable map.
//
// The computation is a primitive pseudo remainder sequence in the first
// variable of positive degree, recursing on the contents, which are
// polynomials in the remaining variables. The univariate case degenerates
// to the Euclidean algorithm.
func Gcd[E Exponent[E]](a, b *Polynomial[*Rat, E]) *Polynomial[*Rat, E] {
	sameVarMap(a, b)
	switch {
	case a.IsZero() && b.IsZero():
		return New[*Rat, E](a.field, a.varMap)
	case a.IsZero():
		return monic(b)
	case b.IsZero():
		return monic(a)
	}
	if a.IsConstant() || b.IsConstant() {
		return One[*Rat, E](a.field, a.varMap)
	}

	v := mainVariable(a, b)
	switch {
	case degreeIn(a, v) == 0:
		return Gcd(a, content(b, v))
	case degreeIn(b, v) == 0:
		return Gcd(content(a, v), b)
	}

	ca, cb := content(a, v), content(b, v)
	c := Gcd(ca, cb)
	pa, pb := divExact(a, ca), divExact(b, cb)

	for {
		if pb.IsZero() {
			break
		}
		if degreeIn(pb, v) == 0 {
			// The sequence dropped to degree zero in v: the gcd of the
			// primitive parts is trivial.
			return monic(c)
		}
		r := pseudoRem(pa, pb, v)
		pa = pb
		if r.IsZero() {
			pb = New[*Rat, E](a.field, a.varMap)
		} else {
			pb = divExact(r, content(r, v))
		}
	}

	g := New[*Rat, E](a.field, a.varMap)
	g.Mul(c, pa)
	return monic(g)
}

// pseudoRem returns the pseudo remainder of a by b with respect to the
// variable at position v: a is repeatedly scaled by the leading
// coefficient of b so that every division step is coefficient free.
func pseudoRem[E Exponent[E]](a, b *Polynomial[*Rat, E], v int) *Polynomial[*Rat, E] {
	degB := degreeIn(b, v)
	lcB := leadingCoeffIn(b, v)

	r := New[*Rat, E](a.field, a.varMap).Set(a)
	for !r.IsZero() {
		degR := degreeIn(r, v)
		if degR < degB {
			break
		}
		lcR := leadingCoeffIn(r, v)

		// r = lcB*r - lcR * x_v^(degR-degB) * b
		t1 := New[*Rat, E](a.field, a.varMap).Mul(lcB, r)
		shift := mulVarPow(lcR, v, degR-degB)
		t2 := New[*Rat, E](a.field, a.varMap).Mul(shift, b)
		r = t1.Add(t1, t2.Neg(t2))
	}
	return r
}

// content returns the gcd of the coefficients of a viewed as a univariate
// polynomial in the variable at position v.
func content[E Exponent[E]](a *Polynomial[*Rat, E], v int) *Polynomial[*Rat, E] {
	c := New[*Rat, E](a.field, a.varMap)
	for _, p := range coefficientsIn(a, v) {
		c = Gcd(c, p)
		if c.IsConstant() && !c.IsZero() {
			break
		}
	}
	return c
}

// coefficientsIn groups the terms of a by their degree in the variable at
// position v, yielding each group with that variable's exponent zeroed.
func coefficientsIn[E Exponent[E]](a *Polynomial[*Rat, E], v int) map[uint32]*Polynomial[*Rat, E] {
	byDeg := make(map[uint32]*Polynomial[*Rat, E])
	w := make([]E, a.NVars())
	for c, pw := range a.Terms() {
		k := pw[v].ToU32()
		p, ok := byDeg[k]
		if !ok {
			p = New[*Rat, E](a.field, a.varMap)
			byDeg[k] = p
		}
		copy(w, pw)
		w[v] = w[v].Zero()
		p.AppendMonomial(c, w)
	}
	return byDeg
}

// leadingCoeffIn returns the coefficient of the highest power of the
// variable at position v, a polynomial of degree zero in that variable.
func leadingCoeffIn[E Exponent[E]](a *Polynomial[*Rat, E], v int) *Polynomial[*Rat, E] {
	deg := degreeIn(a, v)
	lc := New[*Rat, E](a.field, a.varMap)
	w := make([]E, a.NVars())
	for c, pw := range a.Terms() {
		if pw[v].ToU32() != deg {
			continue
		}
		copy(w, pw)
		w[v] = w[v].Zero()
		lc.AppendMonomial(c, w)
	}
	return lc
}

// mulVarPow returns a multiplied by x_v^k.
func mulVarPow[E Exponent[E]](a *Polynomial[*Rat, E], v int, k uint32) *Polynomial[*Rat, E] {
	if k == 0 {
		return a
	}
	var e E
	e, ok := e.FromU32(k)
	if !ok {
		panic("exponent overflow")
	}
	z := New[*Rat, E](a.field, a.varMap)
	w := make([]E, a.NVars())
	for c, pw := range a.Terms() {
		copy(w, pw)
		s, ok := w[v].CheckedAdd(e)
		if !ok {
			panic("exponent overflow")
		}
		w[v] = s
		z.AppendMonomial(c, w)
	}
	return z
}

func degreeIn[E Exponent[E]](a *Polynomial[*Rat, E], v int) uint32 {
	var deg uint32
	for _, w := range a.Terms() {
		if d := w[v].ToU32(); d > deg {
			deg = d
		}
	}
	return deg
}

// mainVariable returns the first variable position of positive degree in
// a or b.
func mainVariable[E Exponent[E]](a, b *Polynomial[*Rat, E]) int {
	for v := range a.NVars() {
		if degreeIn(a, v) > 0 || degreeIn(b, v) > 0 {
			return v
		}
	}
	panic("no variable of positive degree")
}

// divExact returns the quotient a/b, which must be exact.
func divExact[E Exponent[E]](a, b *Polynomial[*Rat, E]) *Polynomial[*Rat, E] {
	sameVarMap(a, b)
	if b.IsZero() {
		panic("division by the zero polynomial")
	}

	q := New[*Rat, E](a.field, a.varMap)
	r := New[*Rat, E](a.field, a.varMap).Set(a)
	bc, bw := b.LeadingTerm()
	w := make([]E, a.NVars())
	for !r.IsZero() {
		rc, rw := r.LeadingTerm()
		for i := range rw {
			if rw[i].Cmp(bw[i]) < 0 {
				panic("division is not exact")
			}
			w[i] = rw[i].Sub(bw[i])
		}
		c := a.field.NewZero().Div(rc, bc)
		q.AppendMonomial(c, w)

		// r -= c * x^w * b
		t := mulVarPowVec(b, w)
		t = t.MulScalar(a.field.NewZero().Neg(c), t)
		r = r.Add(r, t)
	}
	return q
}

func mulVarPowVec[E Exponent[E]](a *Polynomial[*Rat, E], shift []E) *Polynomial[*Rat, E] {
	z := New[*Rat, E](a.field, a.varMap)
	w := make([]E, a.NVars())
	for c, pw := range a.Terms() {
		for i := range pw {
			s, ok := pw[i].CheckedAdd(shift[i])
			if !ok {
				panic("exponent overflow")
			}
			w[i] = s
		}
		z.AppendMonomial(c, w)
	}
	return z
}

// monic scales a so that its leading coefficient is 1.
func monic[E Exponent[E]](a *Polynomial[*Rat, E]) *Polynomial[*Rat, E] {
	if a.IsZero() {
		return a
	}
	lc, _ := a.LeadingTerm()
	inv := a.field.NewZero().Inv(lc)
	return New[*Rat, E](a.field, a.varMap).MulScalar(inv, a)
}
