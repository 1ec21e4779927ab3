package expr

import (
	"fmt"
	"slices"
)

// Operator is a single-character operator symbol.
type Operator rune

// Binary operators.
const (
	Add Operator = '+'
	Mul Operator = '*'
	Pow Operator = '^'
	Div Operator = '/'
)

// Unary operators. They are declared so the alphabet is closed, but no
// part of the enumeration uses them yet.
const (
	Neg       Operator = '-'
	Factorial Operator = '!'
)

// Placeholder marks an optional concatenation point between two operands.
// It is never a valid operator in a finished expression.
const Placeholder Operator = '?'

func (o Operator) String() string { return string(rune(o)) }

// OperatorSet is the fixed operator alphabet. The three groups are
// disjoint. Accessors return copies, so a set cannot be mutated after
// construction.
type OperatorSet struct {
	prefix  []Operator
	postfix []Operator
	binary  []Operator
}

// DefaultOperators returns the standard alphabet: prefix "-", postfix "!",
// binary "+ * ^".
func DefaultOperators() OperatorSet {
	return OperatorSet{
		prefix:  []Operator{Neg},
		postfix: []Operator{Factorial},
		binary:  []Operator{Add, Mul, Pow},
	}
}

// Prefix returns the prefix unary operators.
func (s OperatorSet) Prefix() []Operator { return slices.Clone(s.prefix) }

// Postfix returns the postfix unary operators.
func (s OperatorSet) Postfix() []Operator { return slices.Clone(s.postfix) }

// Unary returns prefix then postfix unary operators.
func (s OperatorSet) Unary() []Operator { return slices.Concat(s.prefix, s.postfix) }

// Binary returns the binary operators in declaration order.
func (s OperatorSet) Binary() []Operator { return slices.Clone(s.binary) }

// IsUnary reports whether o is a prefix or postfix operator of the set.
func (s OperatorSet) IsUnary(o Operator) bool {
	return slices.Contains(s.prefix, o) || slices.Contains(s.postfix, o)
}

// IsBinary reports whether o is a binary operator of the set.
func (s OperatorSet) IsBinary(o Operator) bool { return slices.Contains(s.binary, o) }

// IsSupportedBinary reports whether the evaluator implements o as a binary
// operator. Division is supported but not part of the default alphabet.
func IsSupportedBinary(o Operator) bool {
	switch o {
	case Add, Mul, Pow, Div:
		return true
	}
	return false
}

// ParseOperators converts a compact string such as "+*^" into operators.
// Every character must be a supported binary operator and appear once.
func ParseOperators(s string) ([]Operator, error) {
	var ops []Operator
	for _, r := range s {
		o := Operator(r)
		if !IsSupportedBinary(o) {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognizedDelimiter, r)
		}
		if slices.Contains(ops, o) {
			return nil, fmt.Errorf("duplicate operator %q", r)
		}
		ops = append(ops, o)
	}
	return ops, nil
}

// FormatOperators is the inverse of ParseOperators.
func FormatOperators(ops []Operator) string {
	buf := make([]rune, len(ops))
	for i, o := range ops {
		buf[i] = rune(o)
	}
	return string(buf)
}

func precedence(o Operator) int {
	switch o {
	case Add:
		return 1
	case Mul, Div:
		return 2
	case Pow:
		return 3
	}
	return 0
}

func rightAssociative(o Operator) bool { return o == Pow }
