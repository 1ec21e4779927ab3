// Package cli implements the crazyseq command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/crazyseq/internal/paths"
	"github.com/mesh-intelligence/crazyseq/pkg/sqlite"
	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command tree.
type app struct {
	fs     afero.Fs
	flags  rootFlags
	cfg    *viper.Viper
	logger *slog.Logger
}

// NewRootCmd creates the top-level "crazyseq" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

// newRootCmd builds the command tree with configuration files read from fs.
func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "crazyseq",
		Short: "Enumerate arithmetic expressions over a run of digits",
		Long: "crazyseq builds every expression over the digits start..end using\n" +
			"concatenation, binary operators, and every parenthesization, and\n" +
			"reports the first expression found for each positive value.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug detail to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newRunCmd(a),
		newCatalogCmd(a),
		newCompressCmd(a),
		newCountCmd(a),
		newEvalCmd(a),
		newReplCmd(a),
		newRunsCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// setup configures logging and loads config.yaml before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(a.fs, configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "config_dir", configDir)
	return nil
}

// dataDir resolves the data directory: --data-dir, then data_dir in
// config.yaml, then CRAZYSEQ_DATA_DIR, then the CWD default.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(keyDataDir))
}

// openStore attaches the configured run store. The caller must Detach it.
func (a *app) openStore() (types.Store, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	store := sqlite.NewBackend()
	err = store.Attach(types.Config{Backend: a.cfg.GetString(keyBackend), DataDir: dataDir})
	switch {
	case errors.Is(err, types.ErrBackendEmpty), errors.Is(err, types.ErrBackendUnknown):
		return nil, userError(fmt.Errorf("attach store: %w", err))
	case err != nil:
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	a.logger.Debug("store attached", "data_dir", dataDir)
	return store, nil
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input or configuration.
func userError(err error) error { return &exitError{code: exitUserError, err: err} }

// sysError marks err as an environment or storage failure.
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Errors raised by cobra itself,
// such as unknown flags, count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}
