// Package search drives the exhaustive enumeration: it expands digit
// concatenations, tries every operator assignment and every
// parenthesization, evaluates each expression, and records the first
// expression found for every distinct positive value.
package search

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/crazyseq/pkg/expr"
)

// MaxOperands bounds the number of digits in a run.
const MaxOperands = 10

// Config describes one enumeration.
type Config struct {
	// Start and End are the first and last digit, inclusive.
	Start int
	End   int

	// Operators are the binary operators to assign, in enumeration order.
	Operators []expr.Operator

	// Workers is the number of concurrent evaluation workers. Zero means 1.
	Workers int

	// MaxBits is the evaluation size limit. Zero means expr.DefaultMaxBits.
	MaxBits int
}

// Configuration errors.
var (
	ErrNegativeDigit       = errors.New("digits must not be negative")
	ErrEmptyRange          = errors.New("start digit is after end digit")
	ErrRangeTooLarge       = errors.New("too many digits")
	ErrNoOperators         = errors.New("no operators configured")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrDuplicateOperator   = errors.New("duplicate operator")
	ErrInvalidWorkers      = errors.New("workers must not be negative")
	ErrInvalidMaxBits      = errors.New("max bits must not be negative")
)

// DefaultConfig enumerates 1 through 5 with the default binary operators.
func DefaultConfig() Config {
	return Config{
		Start:     1,
		End:       5,
		Operators: expr.DefaultOperators().Binary(),
		Workers:   1,
		MaxBits:   expr.DefaultMaxBits,
	}
}

// Validate checks that the Config describes a runnable enumeration. It
// returns one of the configuration errors of this package, possibly
// wrapped with detail.
func (c Config) Validate() error {
	if c.Start < 0 || c.End < 0 {
		return ErrNegativeDigit
	}
	if c.Start > c.End {
		return fmt.Errorf("%w: %d > %d", ErrEmptyRange, c.Start, c.End)
	}
	if n := c.End - c.Start + 1; n > MaxOperands {
		return fmt.Errorf("%w: %d > %d", ErrRangeTooLarge, n, MaxOperands)
	}
	if len(c.Operators) == 0 {
		return ErrNoOperators
	}
	set := expr.DefaultOperators()
	for i, op := range c.Operators {
		if set.IsUnary(op) || !expr.IsSupportedBinary(op) {
			return fmt.Errorf("%w: %q", ErrUnsupportedOperator, rune(op))
		}
		if slices.Contains(c.Operators[:i], op) {
			return fmt.Errorf("%w: %q", ErrDuplicateOperator, rune(op))
		}
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	if c.MaxBits < 0 {
		return ErrInvalidMaxBits
	}
	return nil
}

// digits returns the operand tokens Start..End.
func (c Config) digits() []string {
	out := make([]string, 0, c.End-c.Start+1)
	for d := c.Start; d <= c.End; d++ {
		out = append(out, fmt.Sprint(d))
	}
	return out
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}
