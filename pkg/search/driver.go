package search

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/stream"

	"github.com/mesh-intelligence/crazyseq/pkg/expr"
)

// Stats counts the work done by a run.
type Stats struct {
	Variants    int // concatenation variants of the digit run
	Assignments int // (variant, operator assignment) pairs
	Expressions int // parenthesized expressions evaluated
	Skipped     int // expressions whose evaluation failed
}

// Driver runs one enumeration.
type Driver struct {
	cfg    Config
	report func(Entry)
	logger *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithReporter registers fn to receive every new ledger entry as it is
// discovered. Calls are serialized and arrive in ledger order.
func WithReporter(fn func(Entry)) Option {
	return func(d *Driver) { d.report = fn }
}

// WithLogger sets the logger for skipped expressions and run progress.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// NewDriver returns a Driver for cfg. The configuration is validated by Run.
func NewDriver(cfg Config, opts ...Option) *Driver {
	d := &Driver{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run enumerates digits start..end with the given binary operators and
// returns the ledger of positive values.
func Run(start, end int, operators []expr.Operator) (*Ledger, error) {
	cfg := DefaultConfig()
	cfg.Start, cfg.End, cfg.Operators = start, end, operators
	ledger, _, err := NewDriver(cfg).Run()
	return ledger, err
}

// unit is one operator assignment over one concatenation variant.
type unit struct {
	operands []string
	ops      []expr.Operator
}

// unitResult holds the values a unit found, deduplicated within the unit
// and in discovery order.
type unitResult struct {
	found       []Entry
	expressions int
	skipped     int
}

// Run performs the enumeration. Evaluation failures are counted and
// skipped; any other error aborts the run. With more than one worker the
// units are evaluated concurrently but merged in enumeration order, so the
// ledger is identical to a sequential run.
func (d *Driver) Run() (*Ledger, Stats, error) {
	var stats Stats
	if err := d.cfg.Validate(); err != nil {
		return nil, stats, err
	}

	digits := d.cfg.digits()
	marks := make([]expr.Operator, len(digits)-1)
	for i := range marks {
		marks[i] = expr.Placeholder
	}
	variants, err := expr.Compress(expr.MustEncode(digits, marks))
	if err != nil {
		return nil, stats, err
	}
	stats.Variants = len(variants)

	ledger := NewLedger()
	merge := func(r unitResult) {
		stats.Assignments++
		stats.Expressions += r.expressions
		stats.Skipped += r.skipped
		for _, e := range r.found {
			if ledger.Add(e.Value, e.Expression) && d.report != nil {
				d.report(ledger.entries[ledger.Len()-1])
			}
		}
	}

	if workers := d.cfg.workers(); workers > 1 {
		err = d.runConcurrent(variants, workers, merge)
	} else {
		err = d.runSequential(variants, merge)
	}
	if err != nil {
		return nil, stats, err
	}

	d.logger.Info("enumeration complete",
		"start", d.cfg.Start, "end", d.cfg.End,
		"operators", expr.FormatOperators(d.cfg.Operators),
		"values", ledger.Len(),
		"expressions", stats.Expressions,
		"skipped", stats.Skipped)
	return ledger, stats, nil
}

func (d *Driver) runSequential(variants []string, merge func(unitResult)) error {
	for u := range d.units(variants) {
		r, err := d.evaluate(u)
		if err != nil {
			return err
		}
		merge(r)
	}
	return nil
}

func (d *Driver) runConcurrent(variants []string, workers int, merge func(unitResult)) error {
	var (
		failed   atomic.Bool
		firstErr error
	)
	s := stream.New().WithMaxGoroutines(workers)
	for u := range d.units(variants) {
		if failed.Load() {
			break
		}
		s.Go(func() stream.Callback {
			r, err := d.evaluate(u)
			// Callbacks run one at a time in submission order.
			return func() {
				if firstErr != nil {
					return
				}
				if err != nil {
					firstErr = err
					failed.Store(true)
					return
				}
				merge(r)
			}
		})
	}
	s.Wait()
	return firstErr
}

// units yields every (variant, assignment) pair in enumeration order.
func (d *Driver) units(variants []string) iter.Seq[unit] {
	return func(yield func(unit) bool) {
		for _, v := range variants {
			operands := strings.Split(v, expr.Placeholder.String())
			for ops := range assignments(d.cfg.Operators, len(operands)-1) {
				if !yield(unit{operands: operands, ops: ops}) {
					return
				}
			}
		}
	}
}

func (d *Driver) evaluate(u unit) (unitResult, error) {
	var r unitResult
	seq, err := expr.Enumerate(expr.Numbers(u.operands), u.ops)
	if err != nil {
		return r, err
	}

	limits := expr.Limits{MaxBits: d.cfg.MaxBits}
	seen := make(map[string]struct{})
	for n := range seq {
		r.expressions++
		v, err := expr.Eval(n, limits)
		if err != nil {
			if !expr.IsSkippable(err) {
				return r, err
			}
			r.skipped++
			d.logger.Debug("skipping expression", "expression", n.String(), "error", err)
			continue
		}
		if v.Sign() <= 0 {
			continue
		}
		key := v.RatString()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		r.found = append(r.found, Entry{Value: v, Expression: n.String()})
	}
	return r, nil
}

// assignments yields every length-m sequence over ops in Cartesian product
// order. Each yielded slice is freshly allocated.
func assignments(ops []expr.Operator, m int) iter.Seq[[]expr.Operator] {
	return func(yield func([]expr.Operator) bool) {
		idx := make([]int, m)
		for {
			choice := make([]expr.Operator, m)
			for p, i := range idx {
				choice[p] = ops[i]
			}
			if !yield(choice) {
				return
			}
			// Advance the rightmost position first.
			p := m - 1
			for p >= 0 && idx[p] == len(ops)-1 {
				idx[p] = 0
				p--
			}
			if p < 0 {
				return
			}
			idx[p]++
		}
	}
}

// Assignments returns every length-m operator sequence over ops, in the
// order the driver tries them.
func Assignments(ops []expr.Operator, m int) [][]expr.Operator {
	return slices.Collect(assignments(ops, m))
}
