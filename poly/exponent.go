package poly

import "cmp"

// An Exponent is the power of a single variable in a monomial.
//
// Two widths are provided: [U8] keeps exponent vectors small for cache
// friendly inner loops, [U32] covers the full supported range.
// Conversion routines detect overflow through CheckedAdd and FromU32 and
// report [ErrBadExponent], letting the caller retry at the wider width.
type Exponent[E any] interface {
	// Zero returns the zero exponent.
	Zero() E
	// FromU32 converts from uint32, reporting whether n fits the width.
	FromU32(n uint32) (E, bool)
	// ToU32 converts the exponent to uint32. This is always possible,
	// as uint32 is the widest supported exponent.
	ToU32() uint32
	// IsZero reports whether the exponent is zero.
	IsZero() bool
	// Add returns the sum of the receiver and y.
	Add(y E) E
	// CheckedAdd returns the sum of the receiver and y,
	// reporting whether the sum fits the width.
	CheckedAdd(y E) (E, bool)
	// Sub returns the difference of the receiver and y.
	Sub(y E) E
	// Cmp compares the receiver with y as in [cmp.Compare].
	Cmp(y E) int
}

// A U8 is an exponent limited to 255.
type U8 uint8

func (e U8) Zero() U8 { return 0 }

func (e U8) FromU32(n uint32) (U8, bool) {
	if n > 255 {
		return 0, false
	}
	return U8(n), true
}

func (e U8) ToU32() uint32 { return uint32(e) }

func (e U8) IsZero() bool { return e == 0 }

func (e U8) Add(y U8) U8 { return e + y }

func (e U8) CheckedAdd(y U8) (U8, bool) {
	s := e + y
	return s, s >= e
}

func (e U8) Sub(y U8) U8 { return e - y }

func (e U8) Cmp(y U8) int { return cmp.Compare(e, y) }

// A U32 is an exponent limited to 2^32 - 1.
type U32 uint32

func (e U32) Zero() U32 { return 0 }

func (e U32) FromU32(n uint32) (U32, bool) { return U32(n), true }

func (e U32) ToU32() uint32 { return uint32(e) }

func (e U32) IsZero() bool { return e == 0 }

func (e U32) Add(y U32) U32 { return e + y }

func (e U32) CheckedAdd(y U32) (U32, bool) {
	s := e + y
	return s, s >= e
}

func (e U32) Sub(y U32) U32 { return e - y }

func (e U32) Cmp(y U32) int { return cmp.Compare(e, y) }

// Deglex compares exponent vectors by total degree first, breaking ties
// lexicographically.
func Deglex[E Exponent[E]](x, y []E) int {
	var dx, dy uint64
	for _, e := range x {
		dx += uint64(e.ToU32())
	}
	for _, e := range y {
		dy += uint64(e.ToU32())
	}
	if c := cmp.Compare(dx, dy); c != 0 {
		return c
	}
	for i := range x {
		if i >= len(y) {
			return 1
		}
		if c := x[i].Cmp(y[i]); c != 0 {
			return c
		}
	}
	if len(x) < len(y) {
		return -1
	}
	return 0
}
