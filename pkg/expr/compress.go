package expr

import "fmt"

// MaxPlaceholders bounds the number of merge points Compress expands.
const MaxPlaceholders = 20

// Compress expands every placeholder in marked into both of its choices:
// fuse the neighbouring operands, or keep the placeholder between them.
// For k placeholders it returns exactly 2^k strings in Cartesian product
// order, so the first result fuses every operand and the last keeps every
// placeholder. Characters other than digits, parentheses and the
// placeholder are rejected.
func Compress(marked string) ([]string, error) {
	operands, marks, err := Decode(marked, []Operator{Placeholder})
	if err != nil {
		return nil, err
	}
	k := len(marks)
	if k > MaxPlaceholders {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPlaceholders, k, MaxPlaceholders)
	}

	out := make([]string, 0, 1<<k)
	seps := make([]string, k)
	for choice := 0; choice < 1<<k; choice++ {
		for p := range k {
			// The first position is the most significant bit, matching
			// product order over ("", "?").
			if choice&(1<<(k-1-p)) != 0 {
				seps[p] = Placeholder.String()
			} else {
				seps[p] = ""
			}
		}
		out = append(out, interleave(operands, seps))
	}
	return out, nil
}
