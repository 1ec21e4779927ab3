package expr

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Decode splits expression into its operands and the delimiters between
// them. Any character of alphabet is a delimiter; digits and parentheses
// belong to operands. Any other character is rejected with
// ErrUnrecognizedDelimiter rather than dropped.
//
// Decode and Encode are inverses: Encode(Decode(e)) == e.
func Decode(expression string, alphabet []Operator) ([]string, []Operator, error) {
	var (
		operands   []string
		delimiters []Operator
		start      int
	)
	for i, r := range expression {
		switch {
		case slices.Contains(alphabet, Operator(r)):
			if i == start {
				return nil, nil, fmt.Errorf("%w before %q at offset %d", ErrEmptyOperand, r, i)
			}
			operands = append(operands, expression[start:i])
			delimiters = append(delimiters, Operator(r))
			start = i + utf8.RuneLen(r)
		case isOperandRune(r):
		default:
			return nil, nil, fmt.Errorf("%w %q at offset %d", ErrUnrecognizedDelimiter, r, i)
		}
	}
	if start == len(expression) {
		return nil, nil, fmt.Errorf("%w at end of %q", ErrEmptyOperand, expression)
	}
	operands = append(operands, expression[start:])
	return operands, delimiters, nil
}

// Encode interleaves operands and delimiters:
// operand0 delimiter0 operand1 ... operandN-1.
func Encode(operands []string, delimiters []Operator) (string, error) {
	if err := checkPairing(len(operands), len(delimiters)); err != nil {
		return "", err
	}
	seps := make([]string, len(delimiters))
	for i, d := range delimiters {
		seps[i] = d.String()
	}
	return interleave(operands, seps), nil
}

// MustEncode is like Encode but panics when the pairing is invalid.
func MustEncode(operands []string, delimiters []Operator) string {
	s, err := Encode(operands, delimiters)
	if err != nil {
		panic(err)
	}
	return s
}

func checkPairing(operands, delimiters int) error {
	if operands != delimiters+1 {
		return fmt.Errorf("%w: %d operands, %d delimiters", ErrLengthMismatch, operands, delimiters)
	}
	return nil
}

// interleave joins operands with per-position separators. An empty
// separator fuses its neighbours. len(seps) == len(operands)-1 is assumed.
func interleave(operands, seps []string) string {
	var b strings.Builder
	for i, op := range operands {
		if i > 0 {
			b.WriteString(seps[i-1])
		}
		b.WriteString(op)
	}
	return b.String()
}

func isOperandRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '(' || r == ')'
}
