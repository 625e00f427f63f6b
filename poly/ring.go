// Package poly implements sparse multivariate polynomials over pluggable
// coefficient rings, rational polynomials kept in coprime form, and the
// conversion between them and symbolic expressions.
package poly

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fumin/sym"
)

// A Ring is a coefficient element whose addition and multiplication
// satisfy the ring axioms.
type Ring[T any] interface {
	// NewZero returns the additive identity of the ring.
	NewZero() T
	// NewOne returns the multiplicative identity of the ring.
	NewOne() T

	// Equal reports whether x and y are equal, where x is the method receiver.
	Equal(y T) bool
	// IsZero reports whether the receiver is the additive identity.
	IsZero() bool
	// Add sets z to the sum x+y and returns z, where z is the method receiver.
	Add(x, y T) T
	// Sub sets z to the difference x-y and returns z, where z is the method receiver.
	Sub(x, y T) T
	// Mul sets z to the product x*y and returns z, where z is the method receiver.
	Mul(x, y T) T
	// Neg sets z to -x and returns z, where z is the method receiver.
	Neg(x T) T

	// FromNumber sets z to the value of n and returns z.
	// Finite field residues are rejected with [ErrFiniteField].
	FromNumber(n sym.Number) (T, error)

	// String returns the string representation.
	String() string
}

// A Field is a Ring whose nonzero elements are invertible.
type Field[T any] interface {
	Ring[T]
	// Div sets z to the quotient x/y and returns z, where z is the method receiver.
	Div(x, y T) T
	// Inv sets z to 1/x and returns z, where z is the method receiver.
	Inv(x T) T
}

// A Rat is a rational coefficient of arbitrary precision.
type Rat struct{ *big.Rat }

// NewRat creates a new [Rat] with numerator a and denominator b.
func NewRat(a, b int64) *Rat { return &Rat{big.NewRat(a, b)} }

// NewZero returns the additive identity 0.
func (x *Rat) NewZero() *Rat {
	return &Rat{big.NewRat(0, 1)}
}

// NewOne returns the multiplicative identity 1.
func (x *Rat) NewOne() *Rat {
	return &Rat{big.NewRat(1, 1)}
}

// Add sets z to the sum x+y and returns z.
func (z *Rat) Add(x, y *Rat) *Rat { return &Rat{z.Rat.Add(x.Rat, y.Rat)} }

// Sub sets z to the difference x-y and returns z.
func (z *Rat) Sub(x, y *Rat) *Rat { return &Rat{z.Rat.Sub(x.Rat, y.Rat)} }

// Mul sets z to the product x*y and returns z.
func (z *Rat) Mul(x, y *Rat) *Rat { return &Rat{z.Rat.Mul(x.Rat, y.Rat)} }

// Neg sets z to -x and returns z.
func (z *Rat) Neg(x *Rat) *Rat { return &Rat{z.Rat.Neg(x.Rat)} }

// Div sets z to the quotient x/y and returns z. If y == 0, Div panics.
func (z *Rat) Div(x, y *Rat) *Rat { return &Rat{z.Rat.Quo(x.Rat, y.Rat)} }

// Inv sets z to 1/x and returns z. If x == 0, Inv panics.
func (z *Rat) Inv(x *Rat) *Rat { return &Rat{z.Rat.Inv(x.Rat)} }

// Equal reports whether x and y are equal.
func (x *Rat) Equal(y *Rat) bool {
	return x.Rat.Cmp(y.Rat) == 0
}

// IsZero reports whether x == 0.
func (x *Rat) IsZero() bool { return x.Rat.Sign() == 0 }

// FromNumber sets z to the value of n and returns z.
func (z *Rat) FromNumber(n sym.Number) (*Rat, error) {
	if n.Kind() == sym.FiniteField {
		return nil, errors.Wrap(ErrFiniteField, "")
	}
	return &Rat{z.Rat.Set(n.Rat())}, nil
}

// String returns a string representation of x in the form "a/b" if b != 1, and in the form "a" if b == 1.
func (x *Rat) String() string {
	return x.RatString()
}
