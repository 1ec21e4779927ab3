package expr

import "strings"

// Node is an expression tree produced by the enumerator. Nodes are
// immutable once built; slices inside a Chain may be shared between
// catalog entries.
type Node interface {
	// String renders the node in flat infix form.
	String() string
}

// Number is a literal operand such as "7" or "123".
type Number string

func (n Number) String() string { return string(n) }

// Group is a node wrapped in one pair of parentheses.
type Group struct {
	Inner Node
}

func (g Group) String() string { return "(" + g.Inner.String() + ")" }

// Chain is an unparenthesized run of terms joined by binary operators.
// len(Terms) == len(Ops)+1.
type Chain struct {
	Terms []Node
	Ops   []Operator
}

func (c Chain) String() string {
	var b strings.Builder
	for i, t := range c.Terms {
		if i > 0 {
			b.WriteRune(rune(c.Ops[i-1]))
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Numbers converts operand tokens into Number terms.
func Numbers(operands []string) []Node {
	terms := make([]Node, len(operands))
	for i, op := range operands {
		terms[i] = Number(op)
	}
	return terms
}
