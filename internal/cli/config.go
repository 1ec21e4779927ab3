package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crazyseq/internal/paths"
	"github.com/mesh-intelligence/crazyseq/pkg/expr"
	"github.com/mesh-intelligence/crazyseq/pkg/search"
	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

// Config keys in config.yaml.
const (
	keyStart     = "start"
	keyEnd       = "end"
	keyOperators = "operators"
	keyWorkers   = "workers"
	keyMaxBits   = "max_bits"
	keyBackend   = "backend"
	keyDataDir   = "data_dir"
)

// envPrefix prefixes the environment overrides, e.g. CRAZYSEQ_END.
const envPrefix = "CRAZYSEQ"

// envKeys may be overridden from the environment. data_dir is resolved by
// paths.ResolveDataDir, which ranks CRAZYSEQ_DATA_DIR below config.yaml.
var envKeys = []string{keyStart, keyEnd, keyOperators, keyWorkers, keyMaxBits, keyBackend}

// configFile holds the structure written to config.yaml.
type configFile struct {
	Start     int    `yaml:"start"`
	End       int    `yaml:"end"`
	Operators string `yaml:"operators"`
	Workers   int    `yaml:"workers"`
	MaxBits   int    `yaml:"max_bits"`
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
}

func defaultConfigFile() configFile {
	d := search.DefaultConfig()
	return configFile{
		Start:     d.Start,
		End:       d.End,
		Operators: expr.FormatOperators(d.Operators),
		Workers:   d.Workers,
		MaxBits:   d.MaxBits,
		Backend:   types.BackendSQLite,
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first use. Environment variables override the file and
// defaults fill anything the file leaves out.
func loadConfig(fs afero.Fs, configDir string) (*viper.Viper, error) {
	if err := fs.MkdirAll(configDir, 0o755); err != nil {
		return nil, sysError(fmt.Errorf("create config dir: %w", err))
	}
	if err := ensureDefaultConfigFile(fs, configDir); err != nil {
		return nil, sysError(fmt.Errorf("ensure default config: %w", err))
	}

	v := viper.New()
	v.SetFs(fs)
	d := defaultConfigFile()
	v.SetDefault(keyStart, d.Start)
	v.SetDefault(keyEnd, d.End)
	v.SetDefault(keyOperators, d.Operators)
	v.SetDefault(keyWorkers, d.Workers)
	v.SetDefault(keyMaxBits, d.MaxBits)
	v.SetDefault(keyBackend, d.Backend)

	v.SetEnvPrefix(envPrefix)
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, sysError(fmt.Errorf("bind env %s: %w", k, err))
		}
	}

	v.SetConfigFile(paths.ConfigFile(configDir))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, userError(fmt.Errorf("read config: %w", err))
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in configDir.
func ensureDefaultConfigFile(fs afero.Fs, configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := fs.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return writeConfigFile(fs, path, defaultConfigFile())
}

// readConfigFile decodes path, starting from the defaults so that keys
// missing from the file keep their default values.
func readConfigFile(fs afero.Fs, path string) (configFile, error) {
	cfg := defaultConfigFile()
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func writeConfigFile(fs afero.Fs, path string, cfg configFile) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

// searchConfig builds the driver configuration from the merged settings.
func (a *app) searchConfig() (search.Config, error) {
	ops, err := expr.ParseOperators(a.cfg.GetString(keyOperators))
	if err != nil {
		return search.Config{}, userError(fmt.Errorf("operators: %w", err))
	}
	cfg := search.Config{
		Start:     a.cfg.GetInt(keyStart),
		End:       a.cfg.GetInt(keyEnd),
		Operators: ops,
		Workers:   a.cfg.GetInt(keyWorkers),
		MaxBits:   a.cfg.GetInt(keyMaxBits),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, userError(err)
	}
	return cfg, nil
}
