package sym

import (
	"fmt"
	"strings"
)

// A Kind is the variant of an expression node.
type Kind uint8

const (
	NumAtom Kind = iota
	VarAtom
	FunAtom
	PowAtom
	MulAtom
	AddAtom
)

// An Atom is a node in an expression tree.
//
// Atoms are built bottom up with the SetFrom, SetTo and Extend builders.
// SetFrom and SetTo clear the dirty flag and Extend leaves it unchanged;
// code that assembles a node which may violate canonical form marks it
// with [Atom.SetDirty]. [Atom.Normalize] consumes dirty trees and
// produces clean ones.
// Only clean atoms may be compared with [Atom.Equal].
type Atom struct {
	kind  Kind
	num   Number
	name  Identifier
	args  []*Atom
	dirty bool
}

// Kind returns the variant of a.
func (a *Atom) Kind() Kind { return a.kind }

// Dirty reports whether a is possibly not in canonical form.
func (a *Atom) Dirty() bool { return a.dirty }

// SetDirty marks a as possibly not in canonical form.
func (a *Atom) SetDirty(dirty bool) { a.dirty = dirty }

// NumberView returns the number held by a Num atom.
func (a *Atom) NumberView() Number {
	if a.kind != NumAtom {
		panic("not a number")
	}
	return a.num
}

// Name returns the identifier of a Var or Fun atom.
func (a *Atom) Name() Identifier {
	switch a.kind {
	case VarAtom, FunAtom:
		return a.name
	}
	panic("atom has no name")
}

// NArgs returns the number of children of a.
func (a *Atom) NArgs() int { return len(a.args) }

// Args returns the children of a. The caller must not modify them.
func (a *Atom) Args() []*Atom { return a.args }

// BaseExp returns the base and exponent of a Pow atom.
func (a *Atom) BaseExp() (base, exp *Atom) {
	if a.kind != PowAtom {
		panic("not a power")
	}
	return a.args[0], a.args[1]
}

// SetFromNumber turns a into the number n.
func (a *Atom) SetFromNumber(n Number) {
	a.reset(NumAtom)
	a.num = n
}

// SetFromVar turns a into the variable named id.
func (a *Atom) SetFromVar(id Identifier) {
	a.reset(VarAtom)
	a.name = id
}

// SetFromName turns a into a function named id with no arguments yet.
func (a *Atom) SetFromName(id Identifier) {
	a.reset(FunAtom)
	a.name = id
}

// AddArg appends a copy of arg to a function atom.
func (a *Atom) AddArg(arg *Atom) {
	if a.kind != FunAtom {
		panic("not a function")
	}
	a.args = append(a.args, arg.clone())
}

// SetFromBaseAndExp turns a into the power base^exp.
func (a *Atom) SetFromBaseAndExp(base, exp *Atom) {
	a.reset(PowAtom)
	a.args = append(a.args, base.clone(), exp.clone())
}

// SetToMul turns a into an empty product.
func (a *Atom) SetToMul() { a.reset(MulAtom) }

// SetToAdd turns a into an empty sum.
func (a *Atom) SetToAdd() { a.reset(AddAtom) }

// Extend appends a copy of arg to a sum or product.
func (a *Atom) Extend(arg *Atom) {
	switch a.kind {
	case MulAtom, AddAtom:
	default:
		panic("not a sum or product")
	}
	a.args = append(a.args, arg.clone())
}

// Set overwrites a with a deep copy of x.
func (a *Atom) Set(x *Atom) {
	if a == x {
		return
	}
	a.reset(x.kind)
	a.num = x.num
	a.name = x.name
	a.dirty = x.dirty
	for _, arg := range x.args {
		a.args = append(a.args, arg.clone())
	}
}

// Equal reports whether a and x are structurally identical.
// Both atoms must be clean.
func (a *Atom) Equal(x *Atom) bool {
	if a == x {
		return true
	}
	if a.kind != x.kind || len(a.args) != len(x.args) {
		return false
	}
	switch a.kind {
	case NumAtom:
		return a.num.Equal(x.num)
	case VarAtom:
		return a.name == x.name
	case FunAtom:
		if a.name != x.name {
			return false
		}
	}
	for i, arg := range a.args {
		if !arg.Equal(x.args[i]) {
			return false
		}
	}
	return true
}

// String renders a using the symbol names of state.
func (a *Atom) String(state *State) string {
	var b strings.Builder
	a.format(&b, state)
	return b.String()
}

func (a *Atom) format(b *strings.Builder, state *State) {
	switch a.kind {
	case NumAtom:
		b.WriteString(a.num.String())
	case VarAtom:
		b.WriteString(state.Name(a.name))
	case FunAtom:
		b.WriteString(state.Name(a.name))
		b.WriteByte('(')
		for i, arg := range a.args {
			if i > 0 {
				b.WriteByte(',')
			}
			arg.format(b, state)
		}
		b.WriteByte(')')
	case PowAtom:
		a.formatChild(b, state, a.args[0])
		b.WriteByte('^')
		a.formatChild(b, state, a.args[1])
	case MulAtom:
		args := a.args
		// A clean product keeps its numeric coefficient last; print it
		// leading, the way coefficients read.
		if last := args[len(args)-1]; len(args) > 1 && last.kind == NumAtom && last.num.Kind() != FiniteField {
			switch s := last.num.String(); s {
			case "-1":
				b.WriteByte('-')
			default:
				b.WriteString(s)
				b.WriteByte('*')
			}
			args = args[:len(args)-1]
		}
		for i, arg := range args {
			if i > 0 {
				b.WriteByte('*')
			}
			a.formatChild(b, state, arg)
		}
	case AddAtom:
		for i, arg := range a.args {
			var term strings.Builder
			arg.format(&term, state)
			s := term.String()
			if i > 0 && !strings.HasPrefix(s, "-") {
				b.WriteByte('+')
			}
			b.WriteString(s)
		}
	default:
		panic(fmt.Sprintf("unknown kind %d", a.kind))
	}
}

func (a *Atom) formatChild(b *strings.Builder, state *State, child *Atom) {
	paren := false
	switch child.kind {
	case AddAtom:
		paren = true
	case MulAtom, PowAtom:
		paren = a.kind == PowAtom
	case NumAtom:
		n := child.num
		paren = n.Kind() != FiniteField && (!n.IsInteger() || n.Rat().Sign() < 0)
	}
	if paren {
		b.WriteByte('(')
		child.format(b, state)
		b.WriteByte(')')
		return
	}
	child.format(b, state)
}

func (a *Atom) clone() *Atom {
	x := &Atom{kind: a.kind, num: a.num, name: a.name, dirty: a.dirty}
	if len(a.args) > 0 {
		x.args = make([]*Atom, len(a.args))
		for i, arg := range a.args {
			x.args[i] = arg.clone()
		}
	}
	return x
}

func (a *Atom) reset(kind Kind) {
	a.kind = kind
	a.num = Number{kind: Natural, q: 1}
	a.name = 0
	a.args = a.args[:0]
	a.dirty = false
}

// cmpAtoms is the total order on clean atoms used by the normalizer:
// numbers sort last, then variables, powers, products, functions and sums,
// with ties broken by content.
func cmpAtoms(x, y *Atom) int {
	xr, yr := kindRank(x.kind), kindRank(y.kind)
	if xr != yr {
		if xr < yr {
			return -1
		}
		return 1
	}
	switch x.kind {
	case NumAtom:
		if x.num.Kind() == FiniteField || y.num.Kind() == FiniteField {
			return 0
		}
		return x.num.Rat().Cmp(y.num.Rat())
	case VarAtom:
		return int(x.name) - int(y.name)
	case FunAtom:
		if x.name != y.name {
			return int(x.name) - int(y.name)
		}
	}
	for i, arg := range x.args {
		if i >= len(y.args) {
			return 1
		}
		if c := cmpAtoms(arg, y.args[i]); c != 0 {
			return c
		}
	}
	if len(x.args) < len(y.args) {
		return -1
	}
	return 0
}

func kindRank(k Kind) int {
	switch k {
	case VarAtom:
		return 0
	case PowAtom:
		return 1
	case MulAtom:
		return 2
	case FunAtom:
		return 3
	case AddAtom:
		return 4
	default: // NumAtom
		return 5
	}
}
