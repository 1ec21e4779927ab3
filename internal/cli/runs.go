package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

// runJSON is the JSON form of a saved run.
type runJSON struct {
	RunID     string      `json:"run_id"`
	Start     int         `json:"start"`
	End       int         `json:"end"`
	Operators string      `json:"operators"`
	MaxBits   int         `json:"max_bits"`
	Values    int         `json:"values"`
	CreatedAt string      `json:"created_at"`
	Results   []entryJSON `json:"results,omitempty"`
}

func toRunJSON(r *types.Run) runJSON {
	return runJSON{
		RunID:     r.RunID,
		Start:     r.Start,
		End:       r.End,
		Operators: r.Operators,
		MaxBits:   r.MaxBits,
		Values:    r.Values,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved runs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved runs, newest first",
			Args:  cobra.NoArgs,
			RunE:  a.runsList,
		},
		&cobra.Command{
			Use:   "show <run-id>",
			Short: "Print a saved run and its ledger",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runsShow,
		},
	)
	return cmd
}

func (a *app) runsList(cmd *cobra.Command, args []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	runs, err := store.ListRuns()
	if err != nil {
		return sysError(fmt.Errorf("list runs: %w", err))
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		rows := make([]runJSON, len(runs))
		for i, r := range runs {
			rows[i] = toRunJSON(r)
		}
		return printJSON(out, rows)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tDIGITS\tOPERATORS\tVALUES\tSAVED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d..%d\t%s\t%s\t%s\n",
			r.RunID, r.Start, r.End, r.Operators, humanize.Comma(int64(r.Values)), humanize.Time(r.CreatedAt))
	}
	return tw.Flush()
}

func (a *app) runsShow(cmd *cobra.Command, args []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	run, err := store.GetRun(args[0])
	if err != nil {
		return lookupError(err)
	}
	results, err := store.Results(run.RunID)
	if err != nil {
		return lookupError(err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		row := toRunJSON(run)
		row.Results = make([]entryJSON, len(results))
		for i, r := range results {
			row.Results[i] = entryJSON{Value: r.Value, Expression: r.Expression}
		}
		return printJSON(out, row)
	}

	fmt.Fprintf(out, "run %s: digits %d..%d, operators %q, %s values, saved %s\n",
		run.RunID, run.Start, run.End, run.Operators, humanize.Comma(int64(run.Values)), humanize.Time(run.CreatedAt))
	for _, r := range results {
		fmt.Fprintf(out, "%s = %s\n", r.Value, r.Expression)
	}
	return nil
}

// lookupError classifies a store lookup failure.
func lookupError(err error) error {
	if errors.Is(err, types.ErrRunNotFound) || errors.Is(err, types.ErrInvalidID) {
		return userError(err)
	}
	return sysError(err)
}
