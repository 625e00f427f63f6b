package poly

import "github.com/pkg/errors"

// The error kinds produced by polynomial conversion.
// They are sentinel values: discriminate with [errors.Cause].
var (
	// ErrUnsupportedFunction reports a function inside a polynomial context.
	ErrUnsupportedFunction = errors.New("function not supported in a polynomial")
	// ErrUnsupportedBase reports a power whose base is not a variable.
	ErrUnsupportedBase = errors.New("power base must be a variable")
	// ErrBadExponent reports an exponent that is not an integer, is
	// negative, or does not fit the selected exponent width.
	ErrBadExponent = errors.New("exponent is fractional, negative or too large")
	// ErrUnknownVariable reports a variable absent from a caller supplied
	// variable map.
	ErrUnknownVariable = errors.New("variable is not in the variable map")
	// ErrFiniteField reports a finite field residue in a routine that does
	// not accept one.
	ErrFiniteField = errors.New("finite field numbers are not supported in conversion")
	// ErrNestedSum reports a sum inside a product factor; the input was
	// not expanded.
	ErrNestedSum = errors.New("sum inside a product factor")
	// ErrParse reports a numeric literal that could not be parsed.
	ErrParse = errors.New("could not parse number")
)
