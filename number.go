package sym

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"lukechampine.com/uint128"
)

// A NumberKind discriminates the representations of a [Number].
type NumberKind uint8

const (
	// Natural is a machine sized rational p/q with q > 0 and gcd(|p|,q) = 1.
	Natural NumberKind = iota
	// Large is an arbitrary precision rational.
	Large
	// FiniteField is a residue modulo a prime.
	FiniteField
)

// A Number is an exact scalar: a machine sized rational, an arbitrary
// precision rational, or a finite field residue.
// Construct Numbers with [NewNatural], [NewLarge] and [NewFiniteField].
type Number struct {
	kind NumberKind
	// p/q is the rational for Natural numbers.
	// For FiniteField numbers, p is the residue and q the prime modulus.
	p, q int64
	r    *big.Rat
}

// NewNatural returns the rational p/q in canonical form.
// q must be nonzero.
func NewNatural(p, q int64) Number {
	if q == 0 {
		panic("zero denominator")
	}
	if q < 0 {
		p, q = -p, -q
	}
	if g := gcd64(abs64(p), q); g > 1 {
		p, q = p/g, q/g
	}
	return Number{kind: Natural, p: p, q: q}
}

// NewLarge returns r as a Number, demoting to machine size when r fits.
func NewLarge(r *big.Rat) Number {
	if r.Num().IsInt64() && r.Denom().IsInt64() {
		return NewNatural(r.Num().Int64(), r.Denom().Int64())
	}
	return Number{kind: Large, r: new(big.Rat).Set(r)}
}

// NewFiniteField returns the residue i mod p, where p is a prime modulus.
func NewFiniteField(i, p int64) Number {
	if p <= 0 {
		panic("modulus must be positive")
	}
	i %= p
	if i < 0 {
		i += p
	}
	return Number{kind: FiniteField, p: i, q: p}
}

// Kind returns the representation of x.
func (x Number) Kind() NumberKind { return x.kind }

// Natural returns the machine sized numerator and denominator of x.
func (x Number) Natural() (p, q int64) { return x.p, x.q }

// Residue returns the residue and modulus of a finite field number.
func (x Number) Residue() (i, p int64) { return x.p, x.q }

// Rat returns the value of x as a big rational.
// Rat panics on finite field numbers.
func (x Number) Rat() *big.Rat {
	switch x.kind {
	case Natural:
		return big.NewRat(x.p, x.q)
	case Large:
		return new(big.Rat).Set(x.r)
	default:
		panic("finite field residue is not a rational")
	}
}

// IsZero reports whether x is the additive identity.
func (x Number) IsZero() bool {
	switch x.kind {
	case Large:
		return x.r.Sign() == 0
	default:
		return x.p == 0
	}
}

// IsOne reports whether x is the multiplicative identity.
func (x Number) IsOne() bool {
	switch x.kind {
	case Natural:
		return x.p == 1 && x.q == 1
	case Large:
		return x.r.Cmp(ratOne) == 0
	default:
		return x.p == 1
	}
}

// IsInteger reports whether x is an integer valued rational.
func (x Number) IsInteger() bool {
	switch x.kind {
	case Natural:
		return x.q == 1
	case Large:
		return x.r.IsInt()
	default:
		return false
	}
}

// Int64 returns the integer value of x, which must be an integer
// valued rational fitting in an int64.
func (x Number) Int64() (int64, bool) {
	switch x.kind {
	case Natural:
		if x.q != 1 {
			return 0, false
		}
		return x.p, true
	case Large:
		if !x.r.IsInt() || !x.r.Num().IsInt64() {
			return 0, false
		}
		return x.r.Num().Int64(), true
	default:
		return 0, false
	}
}

// Equal reports whether x and y represent the same value.
func (x Number) Equal(y Number) bool {
	if x.kind == FiniteField || y.kind == FiniteField {
		return x.kind == y.kind && x.p == y.p && x.q == y.q
	}
	if x.kind == Natural && y.kind == Natural {
		return x.p == y.p && x.q == y.q
	}
	return x.Rat().Cmp(y.Rat()) == 0
}

// Add returns the sum x+y.
func (x Number) Add(y Number) Number {
	if x.kind == FiniteField || y.kind == FiniteField {
		p := sameField(x, y)
		return Number{kind: FiniteField, p: (x.p + y.p) % p, q: p}
	}
	if x.kind == Natural && y.kind == Natural {
		// x + y = (x.p*y.q + y.p*x.q) / (x.q*y.q)
		a, ok1 := mul64(x.p, y.q)
		b, ok2 := mul64(y.p, x.q)
		q, ok3 := mul64(x.q, y.q)
		if ok1 && ok2 && ok3 {
			if p, ok := add64(a, b); ok {
				return NewNatural(p, q)
			}
		}
	}
	return NewLarge(new(big.Rat).Add(x.Rat(), y.Rat()))
}

// Mul returns the product x*y.
func (x Number) Mul(y Number) Number {
	if x.kind == FiniteField || y.kind == FiniteField {
		p := sameField(x, y)
		return Number{kind: FiniteField, p: mulMod(x.p, y.p, p), q: p}
	}
	if x.kind == Natural && y.kind == Natural {
		p, ok1 := mul64(x.p, y.p)
		q, ok2 := mul64(x.q, y.q)
		if ok1 && ok2 {
			return NewNatural(p, q)
		}
	}
	return NewLarge(new(big.Rat).Mul(x.Rat(), y.Rat()))
}

// Neg returns -x.
func (x Number) Neg() Number {
	switch x.kind {
	case Natural:
		if x.p == math.MinInt64 {
			return NewLarge(new(big.Rat).Neg(x.Rat()))
		}
		return Number{kind: Natural, p: -x.p, q: x.q}
	case Large:
		return NewLarge(new(big.Rat).Neg(x.r))
	default:
		return Number{kind: FiniteField, p: (x.q - x.p) % x.q, q: x.q}
	}
}

// Inv returns 1/x. x must be nonzero and not a finite field residue.
func (x Number) Inv() Number {
	switch x.kind {
	case Natural:
		return NewNatural(x.q, x.p)
	case Large:
		return NewLarge(new(big.Rat).Inv(x.r))
	default:
		panic("finite field residue is not a rational")
	}
}

// String returns x in the form "p" or "p/q".
func (x Number) String() string {
	switch x.kind {
	case Natural:
		if x.q == 1 {
			return strconv.FormatInt(x.p, 10)
		}
		return strconv.FormatInt(x.p, 10) + "/" + strconv.FormatInt(x.q, 10)
	case Large:
		return x.r.RatString()
	default:
		return fmt.Sprintf("%d%%%d", x.p, x.q)
	}
}

var ratOne = big.NewRat(1, 1)

func sameField(x, y Number) int64 {
	if x.kind != FiniteField || y.kind != FiniteField || x.q != y.q {
		panic("operands are not residues of the same finite field")
	}
	return x.q
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// mul64 multiplies a and b, reporting whether the product fits in an int64.
// The magnitude product is computed in 128 bits.
func mul64(a, b int64) (int64, bool) {
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, a == 0 || b == 0
	}
	neg := (a < 0) != (b < 0)
	prod := uint128.From64(uint64(abs64(a))).Mul64(uint64(abs64(b)))
	if prod.Hi != 0 {
		return 0, false
	}
	if neg {
		if prod.Lo > uint64(math.MaxInt64)+1 {
			return 0, false
		}
		if prod.Lo == uint64(math.MaxInt64)+1 {
			return math.MinInt64, true
		}
		return -int64(prod.Lo), true
	}
	if prod.Lo > uint64(math.MaxInt64) {
		return 0, false
	}
	return int64(prod.Lo), true
}

func add64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func mulMod(a, b, p int64) int64 {
	return int64(uint128.From64(uint64(a)).Mul64(uint64(b)).Mod64(uint64(p)))
}
