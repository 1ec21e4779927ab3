package expr

import (
	"fmt"
	"iter"
	"math/big"
	"slices"
	"sync"
)

// MaxTerms bounds the chain length Enumerate accepts. Recursion depth never
// exceeds the chain length, because every recursive call works on a
// strictly shorter chain.
const MaxTerms = 32

// Enumerate streams every parenthesization of the chain formed by terms
// joined with ops. For a chain of n terms the catalog holds:
//
//   - the lone term, when n == 1;
//   - the chain itself and the chain wrapped in parentheses;
//   - for n >= 3, for each contiguous run of 2..n-1 terms, every catalog
//     entry of the run wrapped as a single term, combined with every
//     catalog entry of the shortened chain that contains it.
//
// Entries are not deduplicated; different derivations may render the same
// string. The catalog size follows CatalogSize.
//
// Operand and operator order never change; only grouping does.
func Enumerate(terms []Node, ops []Operator) (iter.Seq[Node], error) {
	if err := checkPairing(len(terms), len(ops)); err != nil {
		return nil, err
	}
	if len(terms) > MaxTerms {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTerms, len(terms), MaxTerms)
	}
	return func(yield func(Node) bool) {
		enumerate(terms, ops, yield)
	}, nil
}

// Parenthesize returns the rendered catalog of operands joined by ops.
func Parenthesize(operands []string, ops []Operator) ([]string, error) {
	seq, err := Enumerate(Numbers(operands), ops)
	if err != nil {
		return nil, err
	}
	var out []string
	for n := range seq {
		out = append(out, n.String())
	}
	return out, nil
}

// enumerate reports false once yield has asked to stop.
func enumerate(terms []Node, ops []Operator, yield func(Node) bool) bool {
	n := len(terms)
	if n == 1 {
		return yield(terms[0])
	}

	chain := Chain{Terms: terms, Ops: ops}
	if !yield(chain) || !yield(Group{Inner: chain}) {
		return false
	}

	// Runs of length n are the outer Group above.
	for size := 2; size < n; size++ {
		for at := 0; at+size <= n; at++ {
			inner := func(g Node) bool {
				rest, restOps := splice(terms, ops, at, size, Group{Inner: g})
				return enumerate(rest, restOps, yield)
			}
			if !enumerate(terms[at:at+size], ops[at:at+size-1], inner) {
				return false
			}
		}
	}
	return true
}

// splice replaces terms[at:at+size] with the single term g and drops the
// size-1 operators joining them. The inputs are not modified.
func splice(terms []Node, ops []Operator, at, size int, g Node) ([]Node, []Operator) {
	rest := make([]Node, 0, len(terms)-size+1)
	rest = append(rest, terms[:at]...)
	rest = append(rest, g)
	rest = append(rest, terms[at+size:]...)

	restOps := make([]Operator, 0, len(ops)-size+1)
	restOps = append(restOps, ops[:at]...)
	restOps = append(restOps, ops[at+size-1:]...)
	return rest, restOps
}

var catalogSizes = struct {
	sync.Mutex
	known []*big.Int
}{known: []*big.Int{nil, big.NewInt(1), big.NewInt(2)}}

// CatalogSize returns the number of entries Enumerate yields for a chain of
// n terms:
//
//	a(1) = 1, a(2) = 2,
//	a(n) = 2 + sum over k = 2..n-1 of (n+1-k) * a(n+1-k) * a(k).
//
// It returns zero for n < 1.
func CatalogSize(n int) *big.Int {
	if n < 1 {
		return new(big.Int)
	}
	catalogSizes.Lock()
	defer catalogSizes.Unlock()

	for m := len(catalogSizes.known); m <= n; m++ {
		a := big.NewInt(2)
		var term big.Int
		for k := 2; k < m; k++ {
			term.SetInt64(int64(m + 1 - k))
			term.Mul(&term, catalogSizes.known[m+1-k])
			term.Mul(&term, catalogSizes.known[k])
			a.Add(a, &term)
		}
		catalogSizes.known = append(catalogSizes.known, a)
	}
	return new(big.Int).Set(catalogSizes.known[n])
}

// CountCatalog walks the catalog and counts its entries.
func CountCatalog(terms []Node, ops []Operator) (int, error) {
	seq, err := Enumerate(terms, ops)
	if err != nil {
		return 0, err
	}
	count := 0
	for range seq {
		count++
	}
	return count, nil
}

// Unique returns s with later duplicates removed, keeping first-seen order.
func Unique(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return slices.Clip(out)
}
