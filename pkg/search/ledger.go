package search

import (
	"math/big"
	"slices"
)

// Entry is one ledger row: a value and the first expression that produced
// it.
type Entry struct {
	Value      *big.Rat
	Expression string
}

// String renders the entry as "value = expression".
func (e Entry) String() string {
	return e.Value.RatString() + " = " + e.Expression
}

// Ledger maps each positive value to the first expression that produced
// it, in discovery order. A value already present is never overwritten.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	index   map[string]int
	entries []Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Add records expression for value if value is positive and not yet
// present. It reports whether the ledger changed.
func (l *Ledger) Add(value *big.Rat, expression string) bool {
	if value == nil || value.Sign() <= 0 {
		return false
	}
	key := value.RatString()
	if _, ok := l.index[key]; ok {
		return false
	}
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, Entry{Value: new(big.Rat).Set(value), Expression: expression})
	return true
}

// Len returns the number of distinct values.
func (l *Ledger) Len() int { return len(l.entries) }

// Lookup returns the expression recorded for value.
func (l *Ledger) Lookup(value *big.Rat) (string, bool) {
	i, ok := l.index[value.RatString()]
	if !ok {
		return "", false
	}
	return l.entries[i].Expression, true
}

// Entries returns the rows in discovery order.
func (l *Ledger) Entries() []Entry { return slices.Clone(l.entries) }

// Values returns the values in discovery order.
func (l *Ledger) Values() []*big.Rat {
	out := make([]*big.Rat, len(l.entries))
	for i, e := range l.entries {
		out[i] = new(big.Rat).Set(e.Value)
	}
	return out
}
