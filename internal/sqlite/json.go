package sqlite

// JSONL record formats. Field names match the SQLite columns loaded from
// them, except where noted.

// runJSON is one line of runs.jsonl.
type runJSON struct {
	RunID     string `json:"run_id"`
	Start     int    `json:"start_digit"`
	End       int    `json:"end_digit"`
	Operators string `json:"operators"`
	MaxBits   int    `json:"max_bits"`
	Values    int    `json:"value_count"`
	CreatedAt string `json:"created_at"`
}

// resultJSON is one line of results.jsonl. RunID is omitted in standalone
// exports.
type resultJSON struct {
	RunID      string `json:"run_id,omitempty"`
	Ordinal    int    `json:"ordinal"`
	Value      string `json:"value"`
	Expression string `json:"expression"`
}
