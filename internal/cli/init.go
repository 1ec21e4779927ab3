package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crazyseq/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the run store",
		Long: "Write config.yaml, recording --data-dir when given, then create the\n" +
			"data directory and initialize the run store.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	configPath := paths.ConfigFile(configDir)

	cfg, err := readConfigFile(a.fs, configPath)
	if err != nil {
		return userError(err)
	}
	if a.flags.dataDir != "" {
		abs, err := filepath.Abs(a.flags.dataDir)
		if err != nil {
			return sysError(fmt.Errorf("resolve data dir: %w", err))
		}
		cfg.DataDir = abs
	}
	if err := writeConfigFile(a.fs, configPath, cfg); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize store: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "crazyseq initialized (config: %s)\n", configPath)
	return nil
}
