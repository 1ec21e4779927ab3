package types

import "time"

// Run describes one saved enumeration.
type Run struct {
	RunID     string    // UUID v7, generated on save when empty.
	Start     int       // First digit.
	End       int       // Last digit.
	Operators string    // Binary operators in enumeration order, e.g. "+*^".
	MaxBits   int       // Evaluation size limit.
	Values    int       // Number of ledger entries.
	CreatedAt time.Time // Time the run was saved.
}

// Result is one ledger entry of a saved run.
type Result struct {
	RunID      string // Owning run.
	Ordinal    int    // Discovery position, starting at 0.
	Value      string // Exact value, rendered as an integer or a fraction "p/q".
	Expression string // First expression found for Value.
}
