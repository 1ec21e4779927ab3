package expr

import (
	"fmt"
	"math/big"
)

// DefaultMaxBits is the size limit used when Limits.MaxBits is zero.
const DefaultMaxBits = 4096

// Limits bounds the work a single evaluation may do.
type Limits struct {
	// MaxBits caps the bit length of the numerator and denominator of every
	// intermediate result. Zero means DefaultMaxBits.
	MaxBits int
}

func (l Limits) maxBits() int {
	if l.MaxBits <= 0 {
		return DefaultMaxBits
	}
	return l.MaxBits
}

// Eval computes the exact value of node. Within a chain, "^" binds
// tightest and groups to the right; "*" and "/" bind tighter than "+" and
// group to the left. Every error Eval returns satisfies IsSkippable.
func Eval(node Node, limits Limits) (*big.Rat, error) {
	e := evaluator{maxBits: limits.maxBits()}
	return e.eval(node)
}

type evaluator struct {
	maxBits int
}

func (e evaluator) eval(node Node) (*big.Rat, error) {
	switch n := node.(type) {
	case Number:
		return parseNumber(string(n))
	case Group:
		return e.eval(n.Inner)
	case Chain:
		return e.chain(n)
	default:
		return nil, fmt.Errorf("%w: unexpected node %T", ErrMalformedOperand, node)
	}
}

// chain reduces a chain with two stacks, one of values and one of pending
// operators.
func (e evaluator) chain(c Chain) (*big.Rat, error) {
	if len(c.Terms) != len(c.Ops)+1 {
		return nil, fmt.Errorf("%w: %d terms, %d operators", ErrMalformedOperand, len(c.Terms), len(c.Ops))
	}
	first, err := e.eval(c.Terms[0])
	if err != nil {
		return nil, err
	}
	values := []*big.Rat{first}
	pending := make([]Operator, 0, len(c.Ops))

	reduce := func() error {
		top := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		a, b := values[len(values)-2], values[len(values)-1]
		r, err := e.apply(a, top, b)
		if err != nil {
			return err
		}
		values = append(values[:len(values)-2], r)
		return nil
	}

	for i, op := range c.Ops {
		for len(pending) > 0 {
			top := pending[len(pending)-1]
			if precedence(top) < precedence(op) ||
				(precedence(top) == precedence(op) && rightAssociative(op)) {
				break
			}
			if err := reduce(); err != nil {
				return nil, err
			}
		}
		v, err := e.eval(c.Terms[i+1])
		if err != nil {
			return nil, err
		}
		pending = append(pending, op)
		values = append(values, v)
	}
	for len(pending) > 0 {
		if err := reduce(); err != nil {
			return nil, err
		}
	}
	return values[0], nil
}

func (e evaluator) apply(a *big.Rat, op Operator, b *big.Rat) (*big.Rat, error) {
	var r *big.Rat
	switch op {
	case Add:
		r = new(big.Rat).Add(a, b)
	case Mul:
		r = new(big.Rat).Mul(a, b)
	case Div:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		r = new(big.Rat).Quo(a, b)
	case Pow:
		var err error
		if r, err = e.pow(a, b); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: operator %q", ErrMalformedOperand, rune(op))
	}
	if r.Num().BitLen() > e.maxBits || r.Denom().BitLen() > e.maxBits {
		return nil, ErrOverflow
	}
	return r, nil
}

// pow raises base to an integer exponent. A negative exponent inverts the
// base first.
func (e evaluator) pow(base, exp *big.Rat) (*big.Rat, error) {
	if !exp.IsInt() {
		return nil, ErrNonIntegerExponent
	}
	x := exp.Num()
	switch {
	case x.Sign() == 0:
		return big.NewRat(1, 1), nil
	case base.Sign() == 0:
		if x.Sign() < 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Rat), nil
	case base.IsInt() && base.Num().CmpAbs(big.NewInt(1)) == 0:
		if base.Sign() < 0 && x.Bit(0) == 1 {
			return big.NewRat(-1, 1), nil
		}
		return big.NewRat(1, 1), nil
	}

	if !x.IsInt64() {
		return nil, ErrOverflow
	}
	n := x.Int64()
	if n < 0 {
		n = -n
	}
	width := max(base.Num().BitLen(), base.Denom().BitLen())
	// Each factor of the base adds at least width-1 bits.
	if width > 1 && n > int64(e.maxBits/(width-1)) {
		return nil, ErrOverflow
	}

	power := big.NewInt(n)
	num := new(big.Int).Exp(base.Num(), power, nil)
	den := new(big.Int).Exp(base.Denom(), power, nil)
	if x.Sign() < 0 {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den), nil
}

// parseNumber accepts decimal digits only. Leading zeros are allowed and
// ignored, so "012" is 12.
func parseNumber(digits string) (*big.Rat, error) {
	if digits == "" {
		return nil, ErrMalformedOperand
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedOperand, digits)
		}
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedOperand, digits)
	}
	return new(big.Rat).SetInt(v), nil
}
