package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crazyseq/internal/paths"
	"github.com/mesh-intelligence/crazyseq/pkg/expr"
)

const (
	historyFileName = "history"
	replPrompt      = "crazyseq> "
)

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "eval <expression>",
		Short:   "Evaluate one expression exactly",
		Example: "  crazyseq eval '(1+2)^3/4'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.evaluate(args[0])
			if err != nil {
				return userError(err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entryJSON{Value: v, Expression: args[0]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

// evaluate parses and evaluates s under the configured size limit.
func (a *app) evaluate(s string) (string, error) {
	n, err := expr.Parse(s)
	if err != nil {
		return "", err
	}
	v, err := expr.Eval(n, expr.Limits{MaxBits: a.cfg.GetInt(keyMaxBits)})
	if err != nil {
		return "", err
	}
	return v.RatString(), nil
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: "Repl reads one expression per line and prints its exact value.\n" +
			"Commands: :catalog <expression> prints the catalog size of a chain,\n" +
			":help lists commands, :quit exits.",
		Args: cobra.NoArgs,
		RunE: a.runRepl,
	}
}

func (a *app) runRepl(cmd *cobra.Command, args []string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if configDir, err := paths.ResolveConfigDir(a.flags.configDir); err == nil {
		histPath = filepath.Join(configDir, historyFileName)
	}
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return sysError(fmt.Errorf("read input: %w", err))
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if a.replLine(out, line) {
			return nil
		}
	}
}

// replLine handles one line of input and reports whether the session ends.
func (a *app) replLine(w io.Writer, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		v, err := a.evaluate(line)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "= %s\n", v)
		return false
	}

	name, rest, _ := strings.Cut(line, " ")
	switch name {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(w, "<expression>          evaluate, e.g. (1+2)^3")
		fmt.Fprintln(w, ":catalog <expression> count parenthesizations of a chain")
		fmt.Fprintln(w, ":quit                 exit")
	case ":catalog":
		operands, _, err := expr.Decode(strings.TrimSpace(rest), catalogAlphabet)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "%s parenthesizations\n", expr.CatalogSize(len(operands)).String())
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for commands.\n", name)
	}
	return false
}
