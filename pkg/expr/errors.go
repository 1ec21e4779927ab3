package expr

import "errors"

// Contract errors. These indicate a caller bug and are never skipped.
var (
	ErrLengthMismatch      = errors.New("operand count must be delimiter count plus one")
	ErrTooManyTerms        = errors.New("too many terms to parenthesize")
	ErrTooManyPlaceholders = errors.New("too many placeholders to compress")
)

// Input errors returned by Decode, Compress and Parse.
var (
	ErrUnrecognizedDelimiter = errors.New("unrecognized delimiter")
	ErrEmptyOperand          = errors.New("empty operand")
	ErrUnbalanced            = errors.New("unbalanced parentheses")
	ErrTooDeep               = errors.New("parentheses nested too deeply")
)

// Evaluation errors. Each one is local to a single expression.
var (
	ErrOverflow           = errors.New("result exceeds size limit")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrNonIntegerExponent = errors.New("exponent is not an integer")
	ErrMalformedOperand   = errors.New("malformed operand")
)

// IsSkippable reports whether err only invalidates the expression being
// evaluated, so that an enumeration can log it and move on.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrOverflow) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrNonIntegerExponent) ||
		errors.Is(err, ErrMalformedOperand)
}
