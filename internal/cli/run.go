package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crazyseq/pkg/expr"
	"github.com/mesh-intelligence/crazyseq/pkg/search"
	"github.com/mesh-intelligence/crazyseq/pkg/sqlite"
	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

// runFlagKeys maps run flags onto config keys.
var runFlagKeys = map[string]string{
	"start":     keyStart,
	"end":       keyEnd,
	"operators": keyOperators,
	"workers":   keyWorkers,
	"max-bits":  keyMaxBits,
}

func newRunCmd(a *app) *cobra.Command {
	var (
		save      bool
		jsonlPath string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enumerate every value reachable from a run of digits",
		Long: "Run tries every concatenation of the digits start..end, every\n" +
			"assignment of the configured binary operators, and every\n" +
			"parenthesization. Each new positive value is printed as\n" +
			"\"value = expression\" when it is first found.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEnumerate(cmd, save, jsonlPath)
		},
	}

	d := defaultConfigFile()
	f := cmd.Flags()
	f.Int("start", d.Start, "first digit")
	f.Int("end", d.End, "last digit")
	f.String("operators", d.Operators, "binary operators to try, in order (from \"+*^/\")")
	f.Int("workers", d.Workers, "concurrent evaluation workers")
	f.Int("max-bits", d.MaxBits, "largest numerator or denominator, in bits, before an expression is skipped")
	f.BoolVar(&save, "save", false, "save the run and its ledger in the data directory")
	f.StringVar(&jsonlPath, "jsonl", "", "export the ledger to a JSONL file")
	return cmd
}

func (a *app) runEnumerate(cmd *cobra.Command, save bool, jsonlPath string) error {
	for name, key := range runFlagKeys {
		if err := a.cfg.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return sysError(fmt.Errorf("bind flag %s: %w", name, err))
		}
	}
	cfg, err := a.searchConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := []search.Option{search.WithLogger(a.logger)}
	if !a.flags.jsonMode {
		opts = append(opts, search.WithReporter(func(e search.Entry) {
			fmt.Fprintln(out, e)
		}))
	}
	ledger, stats, err := search.NewDriver(cfg, opts...).Run()
	if err != nil {
		return sysError(fmt.Errorf("enumerate: %w", err))
	}

	results := ledgerResults(ledger)
	if a.flags.jsonMode {
		entries := make([]entryJSON, len(results))
		for i, r := range results {
			entries[i] = entryJSON{Value: r.Value, Expression: r.Expression}
		}
		if err := printJSON(out, entries); err != nil {
			return err
		}
	}

	errOut := cmd.ErrOrStderr()
	if jsonlPath != "" {
		if err := sqlite.WriteResultsJSONL(jsonlPath, results); err != nil {
			return sysError(fmt.Errorf("export ledger: %w", err))
		}
		fmt.Fprintf(errOut, "exported %s entries to %s\n", humanize.Comma(int64(len(results))), jsonlPath)
	}
	if save {
		id, err := a.saveRun(cfg, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(errOut, "saved run %s\n", id)
	}

	fmt.Fprintf(errOut, "%s values from %s expressions (%s variants, %s assignments, %s skipped)\n",
		humanize.Comma(int64(ledger.Len())),
		humanize.Comma(int64(stats.Expressions)),
		humanize.Comma(int64(stats.Variants)),
		humanize.Comma(int64(stats.Assignments)),
		humanize.Comma(int64(stats.Skipped)))
	return nil
}

func (a *app) saveRun(cfg search.Config, results []types.Result) (string, error) {
	store, err := a.openStore()
	if err != nil {
		return "", err
	}
	defer store.Detach()

	run := &types.Run{
		Start:     cfg.Start,
		End:       cfg.End,
		Operators: expr.FormatOperators(cfg.Operators),
		MaxBits:   cfg.MaxBits,
	}
	id, err := store.SaveRun(run, results)
	if err != nil {
		return "", sysError(fmt.Errorf("save run: %w", err))
	}
	return id, nil
}

// ledgerResults converts the ledger into store records in discovery order.
func ledgerResults(l *search.Ledger) []types.Result {
	entries := l.Entries()
	results := make([]types.Result, len(entries))
	for i, e := range entries {
		results[i] = types.Result{
			Ordinal:    i,
			Value:      e.Value.RatString(),
			Expression: e.Expression,
		}
	}
	return results
}
