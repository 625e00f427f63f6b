package sym

// Derivative computes the derivative of a with respect to the variable x
// and writes the canonical result into out.
// It reports whether the result is nonzero; when it reports false, out
// holds the literal 0.
//
// Derivatives of unknown functions are recorded with the [Derivative]
// tag: der(n0, ..., nk-1, f(a0, ..., ak-1)) where ni counts how many
// times argument i has been differentiated. Differentiating such a tag
// increments the count instead of nesting another tag.
func (a *Atom) Derivative(x Identifier, ws *Workspace, state *State, out *Atom) bool {
	mark := ws.Mark()
	defer ws.Release(mark)
	return a.derivative(x, ws, state, out)
}

func (a *Atom) derivative(x Identifier, ws *Workspace, state *State, out *Atom) bool {
	switch a.kind {
	case NumAtom:
		out.SetFromNumber(NewNatural(0, 1))
		return false
	case VarAtom:
		if a.name == x {
			out.SetFromNumber(NewNatural(1, 1))
			return true
		}
		out.SetFromNumber(NewNatural(0, 1))
		return false
	case FunAtom:
		return a.funDerivative(x, ws, state, out)
	case PowAtom:
		return a.powDerivative(x, ws, state, out)
	case MulAtom:
		return a.mulDerivative(x, ws, state, out)
	default: // AddAtom
		return a.addDerivative(x, ws, state, out)
	}
}

func (a *Atom) funDerivative(x Identifier, ws *Workspace, state *State, out *Atom) bool {
	// When differentiating a derivative tag, recurse into the function
	// held in its last argument and later bump the existing counts
	// instead of nesting a second tag.
	toDerive, f, isDer := a, a, false
	if a.name == Derivative {
		toDerive = a.args[len(a.args)-1]
		if toDerive.kind != FunAtom {
			panic("last argument of a derivative tag must be a function")
		}
		f, isDer = toDerive, true
	}

	type argDer struct {
		index int
		der   *Atom
	}
	var argsDer []argDer
	for i, arg := range f.args {
		d := ws.NewAtom()
		if arg.derivative(x, ws, state, d) {
			argsDer = append(argsDer, argDer{index: i, der: d})
		}
	}
	if len(argsDer) == 0 {
		out.SetFromNumber(NewNatural(0, 1))
		return false
	}

	// Closed forms of the builtin single argument functions.
	if f.NArgs() == 1 && (f.name == Exp || f.name == Log || f.name == Sin || f.name == Cos) {
		fnDer := ws.NewAtom()
		switch f.name {
		case Exp:
			fnDer.Set(a)
		case Log:
			n := ws.NewAtom()
			n.SetFromNumber(NewNatural(-1, 1))
			fnDer.SetFromBaseAndExp(f.args[0], n)
			fnDer.dirty = true
		case Sin:
			fnDer.SetFromName(Cos)
			fnDer.AddArg(f.args[0])
			fnDer.dirty = true
		case Cos:
			n := ws.NewAtom()
			n.SetFromNumber(NewNatural(-1, 1))
			sin := ws.NewAtom()
			sin.SetFromName(Sin)
			sin.AddArg(f.args[0])
			fnDer.SetToMul()
			fnDer.Extend(sin)
			fnDer.Extend(n)
			fnDer.dirty = true
		}

		mul := ws.NewAtom()
		mul.SetToMul()
		mul.Extend(fnDer)
		mul.Extend(argsDer[len(argsDer)-1].der)
		mul.dirty = true
		mul.normalize(ws, state, out)
		return true
	}

	// Unknown function: a sum of tagged derivatives, one per argument
	// whose own derivative is nonzero.
	add := ws.NewAtom()
	add.SetToAdd()
	n := ws.NewAtom()
	for _, ad := range argsDer {
		fnDer := ws.NewAtom()
		fnDer.SetFromName(Derivative)
		for i := range f.NArgs() {
			var inc int64
			if i == ad.index {
				inc = 1
			}
			if isDer {
				count := a.args[i]
				if count.kind != NumAtom {
					panic("derivative tag counts must be numbers")
				}
				n.SetFromNumber(count.num.Add(NewNatural(inc, 1)))
			} else {
				n.SetFromNumber(NewNatural(inc, 1))
			}
			fnDer.AddArg(n)
		}
		fnDer.AddArg(toDerive)
		fnDer.dirty = true

		mul := ws.NewAtom()
		mul.SetToMul()
		mul.Extend(fnDer)
		mul.Extend(ad.der)
		mul.dirty = true
		add.Extend(mul)
		add.dirty = true
	}
	add.normalize(ws, state, out)
	return true
}

func (a *Atom) powDerivative(x Identifier, ws *Workspace, state *State, out *Atom) bool {
	base, exp := a.BaseExp()

	expDer := ws.NewAtom()
	expDerNonZero := exp.derivative(x, ws, state, expDer)
	baseDer := ws.NewAtom()
	baseDerNonZero := base.derivative(x, ws, state, baseDer)
	if !expDerNonZero && !baseDerNonZero {
		out.SetFromNumber(NewNatural(0, 1))
		return false
	}

	// d(b^e) with varying exponent contributes de * b^e * log(b).
	expDerContrib := ws.NewAtom()
	if expDerNonZero {
		logBase := ws.NewAtom()
		logBase.SetFromName(Log)
		logBase.AddArg(base)
		logBase.dirty = true

		mul := ws.NewAtom()
		mul.SetToMul()
		mul.Extend(a)
		mul.Extend(expDer)
		mul.Extend(logBase)
		mul.dirty = true
		mul.normalize(ws, state, expDerContrib)

		if !baseDerNonZero {
			out.Set(expDerContrib)
			return true
		}
	}

	// The varying base contributes db * e * b^(e-1).
	mul := ws.NewAtom()
	mul.SetToMul()
	mul.Extend(baseDer)
	mul.Extend(exp)
	newExp := ws.NewAtom()
	if exp.kind == NumAtom {
		newExp.SetFromNumber(exp.num.Add(NewNatural(-1, 1)))
	} else {
		minOne := ws.NewAtom()
		minOne.SetFromNumber(NewNatural(-1, 1))
		newExp.SetToAdd()
		newExp.Extend(exp)
		newExp.Extend(minOne)
		newExp.dirty = true
	}
	pow := ws.NewAtom()
	pow.SetFromBaseAndExp(base, newExp)
	pow.dirty = true
	mul.Extend(pow)
	mul.dirty = true

	if expDerNonZero {
		add := ws.NewAtom()
		add.SetToAdd()
		add.Extend(mul)
		add.Extend(expDerContrib)
		add.dirty = true
		add.normalize(ws, state, out)
	} else {
		mul.normalize(ws, state, out)
	}
	return true
}

func (a *Atom) mulDerivative(x Identifier, ws *Workspace, state *State, out *Atom) bool {
	add := ws.NewAtom()
	add.SetToAdd()
	var nonZero bool
	for i, arg := range a.args {
		argDer := ws.NewAtom()
		if !arg.derivative(x, ws, state, argDer) {
			continue
		}
		mul := ws.NewAtom()
		mul.SetToMul()
		mul.Extend(argDer)
		for j, other := range a.args {
			if j != i {
				mul.Extend(other)
			}
		}
		mul.dirty = true
		add.Extend(mul)
		add.dirty = true
		nonZero = true
	}

	if !nonZero {
		out.SetFromNumber(NewNatural(0, 1))
		return false
	}
	add.normalize(ws, state, out)
	return true
}

func (a *Atom) addDerivative(x Identifier, ws *Workspace, state *State, out *Atom) bool {
	add := ws.NewAtom()
	add.SetToAdd()
	var nonZero bool
	argDer := ws.NewAtom()
	for _, arg := range a.args {
		if arg.derivative(x, ws, state, argDer) {
			add.Extend(argDer)
			add.dirty = true
			nonZero = true
		}
	}

	if !nonZero {
		out.SetFromNumber(NewNatural(0, 1))
		return false
	}
	add.normalize(ws, state, out)
	return true
}
