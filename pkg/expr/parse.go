package expr

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxDepth bounds parenthesis nesting in Parse.
const MaxDepth = 256

// Parse builds the tree for a flat infix expression over the supported
// binary operators, such as "(1+2)^3". It is the inverse of Node.String:
// Parse(n.String()) renders back to n.String() for every catalog entry n.
// Spaces are ignored.
func Parse(s string) (Node, error) {
	p := parser{src: s}
	n, err := p.chain(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		if p.src[p.pos] == ')' {
			return nil, fmt.Errorf("%w: unexpected ')' at offset %d", ErrUnbalanced, p.pos)
		}
		r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
		return nil, fmt.Errorf("%w %q at offset %d", ErrUnrecognizedDelimiter, r, p.pos)
	}
	return n, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	src string
	pos int
}

// chain parses term (op term)*. A single term is returned as is.
func (p *parser) chain(depth int) (Node, error) {
	first, err := p.term(depth)
	if err != nil {
		return nil, err
	}
	terms := []Node{first}
	var ops []Operator
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		op := Operator(p.src[p.pos])
		if !IsSupportedBinary(op) {
			break
		}
		p.pos++
		t, err := p.term(depth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return Chain{Terms: terms, Ops: ops}, nil
}

// term parses a digit run or a parenthesized chain.
func (p *parser) term(depth int) (Node, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w at end of %q", ErrEmptyOperand, p.src)
	}
	switch c := p.src[p.pos]; {
	case c == '(':
		if depth >= MaxDepth {
			return nil, fmt.Errorf("%w: more than %d levels", ErrTooDeep, MaxDepth)
		}
		open := p.pos
		p.pos++
		inner, err := p.chain(depth + 1)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return nil, fmt.Errorf("%w: '(' at offset %d is not closed", ErrUnbalanced, open)
		}
		p.pos++
		return Group{Inner: inner}, nil
	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		return Number(p.src[start:p.pos]), nil
	case IsSupportedBinary(Operator(c)) || c == ')':
		return nil, fmt.Errorf("%w before %q at offset %d", ErrEmptyOperand, c, p.pos)
	default:
		r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
		return nil, fmt.Errorf("%w %q at offset %d", ErrUnrecognizedDelimiter, r, p.pos)
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}
