package sym

import (
	"bytes"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fumin/sym/parse"
	"github.com/fumin/sym/parse/scan"
)

// ParseAtom parses input and writes the normalized expression into out.
func ParseAtom(state *State, ws *Workspace, input string, out *Atom) error {
	n, err := parse.Parse(scan.NewScanner(bytes.NewBufferString(input)))
	if err != nil {
		return errors.Wrap(err, "")
	}

	mark := ws.Mark()
	defer ws.Release(mark)
	raw := ws.NewAtom()
	if err := ToAtom(n, state, ws, raw); err != nil {
		return errors.Wrap(err, "")
	}
	raw.Normalize(ws, state, out)
	return nil
}

// ToAtom converts a token tree into an expression atom.
// The result may be dirty; callers normalize before comparing.
func ToAtom(n *parse.Node, state *State, ws *Workspace, out *Atom) error {
	switch n.Token.Type {
	case scan.Parenthesis:
		if n.Left == nil {
			return errors.Errorf("empty parenthesis %#v", n)
		}
		return ToAtom(n.Left, state, ws, out)
	case scan.Int:
		num, err := ParseNumber(n.Token.Text)
		if err != nil {
			return errors.Wrap(err, "")
		}
		out.SetFromNumber(num)
		return nil
	case scan.Identifier:
		out.SetFromVar(state.GetOrInsert(n.Token.Text))
		return nil
	case scan.Operator:
		return opToAtom(n, state, ws, out)
	default:
		return errors.Errorf("unknown node %#v", n)
	}
}

func opToAtom(n *parse.Node, state *State, ws *Workspace, out *Atom) error {
	if n.Left == nil || n.Right == nil {
		return errors.Errorf("operator misses operand %#v", n)
	}

	// A quotient of two integer literals is a rational literal.
	if n.Token.Text == "/" && n.Left.Token.Type == scan.Int && n.Right.Token.Type == scan.Int {
		p, err := ParseNumber(n.Left.Token.Text)
		if err != nil {
			return errors.Wrap(err, "")
		}
		q, err := ParseNumber(n.Right.Token.Text)
		if err != nil {
			return errors.Wrap(err, "")
		}
		if q.IsZero() {
			return errors.Errorf("division by zero %#v", n)
		}
		out.SetFromNumber(p.Mul(q.Inv()))
		return nil
	}

	left, right := ws.NewAtom(), ws.NewAtom()
	if err := ToAtom(n.Left, state, ws, left); err != nil {
		return errors.Wrap(err, "")
	}
	if err := ToAtom(n.Right, state, ws, right); err != nil {
		return errors.Wrap(err, "")
	}

	switch n.Token.Text {
	case "+":
		out.SetToAdd()
		out.Extend(left)
		out.Extend(right)
	case "-":
		neg := ws.NewAtom()
		minOne := ws.NewAtom()
		minOne.SetFromNumber(NewNatural(-1, 1))
		neg.SetToMul()
		neg.Extend(right)
		neg.Extend(minOne)
		neg.SetDirty(true)
		out.SetToAdd()
		out.Extend(left)
		out.Extend(neg)
	case "*":
		out.SetToMul()
		out.Extend(left)
		out.Extend(right)
	case "/":
		minOne := ws.NewAtom()
		minOne.SetFromNumber(NewNatural(-1, 1))
		inv := ws.NewAtom()
		inv.SetFromBaseAndExp(right, minOne)
		inv.SetDirty(true)
		out.SetToMul()
		out.Extend(left)
		out.Extend(inv)
	case "^":
		out.SetFromBaseAndExp(left, right)
	default:
		return errors.Errorf("unknown operator %#v", n)
	}
	out.SetDirty(true)
	return nil
}

// ParseNumber parses an integer literal, first as a machine sized
// integer and on overflow as an arbitrary precision one.
func ParseNumber(text string) (Number, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewNatural(i, 1), nil
	}
	z, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return Number{}, errors.Errorf("could not parse number %q", text)
	}
	return NewLarge(new(big.Rat).SetInt(z)), nil
}
