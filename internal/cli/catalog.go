package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crazyseq/pkg/expr"
)

// catalogAlphabet is every binary operator the evaluator supports.
var catalogAlphabet = []expr.Operator{expr.Add, expr.Mul, expr.Pow, expr.Div}

func newCatalogCmd(a *app) *cobra.Command {
	var unique, count bool
	cmd := &cobra.Command{
		Use:   "catalog <expression>",
		Short: "Print every parenthesization of an expression",
		Long: "Catalog splits the expression on its binary operators and prints\n" +
			"every parenthesization of the resulting chain, one per line.\n" +
			"Operand and operator order never change.",
		Example: "  crazyseq catalog '1+2*3'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operands, ops, err := expr.Decode(args[0], catalogAlphabet)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			if count && !unique {
				n, err := expr.CountCatalog(expr.Numbers(operands), ops)
				if err != nil {
					return userError(err)
				}
				fmt.Fprintln(out, n)
				return nil
			}

			catalog, err := expr.Parenthesize(operands, ops)
			if err != nil {
				return userError(err)
			}
			if unique {
				catalog = expr.Unique(catalog)
			}
			switch {
			case count:
				fmt.Fprintln(out, len(catalog))
			case a.flags.jsonMode:
				return printJSON(out, catalog)
			default:
				for _, s := range catalog {
					fmt.Fprintln(out, s)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unique, "unique", false, "drop repeated renderings")
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of entries")
	return cmd
}

func newCompressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compress <marked-expression>",
		Short: "Expand every ? placeholder into fused and separated operands",
		Long: "Compress treats each placeholder as an optional merge point and\n" +
			"prints all 2^k variants, fully fused first.",
		Example: "  crazyseq compress '1?2?3'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants, err := expr.Compress(args[0])
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, variants)
			}
			for _, v := range variants {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}

// catalogSizeJSON is one row of count --json.
type catalogSizeJSON struct {
	Terms int    `json:"terms"`
	Size  string `json:"size"`
}

func newCountCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print catalog sizes for chains of 1..max terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > expr.MaxTerms {
				return userError(fmt.Errorf("--max must be between 1 and %d", expr.MaxTerms))
			}
			rows := make([]catalogSizeJSON, 0, limit)
			for n := 1; n <= limit; n++ {
				rows = append(rows, catalogSizeJSON{Terms: n, Size: expr.CatalogSize(n).String()})
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, rows)
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%d %s\n", r.Terms, r.Size)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "max", 10, "largest chain length")
	return cmd
}
