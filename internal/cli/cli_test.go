package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crazyseq/pkg/expr"
	"github.com/mesh-intelligence/crazyseq/pkg/search"
	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

const testConfigDir = "/cfg"

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the command tree against fs with the config dir pinned to
// testConfigDir.
func execute(t *testing.T, fs afero.Fs, args ...string) cmdResult {
	t.Helper()
	cmd := newRootCmd(fs)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config-dir", testConfigDir}, args...))
	err := cmd.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// isolateEnv clears every environment override the CLI reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(envPrefix+"_"+strings.ToUpper(k), "")
	}
	t.Setenv("CRAZYSEQ_CONFIG_DIR", "")
	t.Setenv("CRAZYSEQ_DATA_DIR", "")
}

func writeConfig(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(testConfigDir, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testConfigDir, "config.yaml"), []byte(content), 0o644))
}

func TestRun(t *testing.T) {
	isolateEnv(t)

	t.Run("prints entries in discovery order", func(t *testing.T) {
		r := execute(t, afero.NewMemMapFs(), "run", "--start", "1", "--end", "2", "--operators", "+")
		require.NoError(t, r.err)
		assert.Equal(t, "12 = 12\n3 = 1+2\n", r.stdout)
		assert.Contains(t, r.stderr, "2 values from 3 expressions")
	})

	t.Run("reads settings from config.yaml", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeConfig(t, fs, "start: 1\nend: 2\noperators: \"+*\"\n")
		r := execute(t, fs, "run")
		require.NoError(t, r.err)
		assert.Equal(t, "12 = 12\n3 = 1+2\n2 = 1*2\n", r.stdout)
	})

	t.Run("flag wins over config.yaml", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeConfig(t, fs, "start: 1\nend: 3\noperators: \"+\"\n")
		r := execute(t, fs, "run", "--end", "2")
		require.NoError(t, r.err)
		assert.Equal(t, "12 = 12\n3 = 1+2\n", r.stdout)
	})

	t.Run("env wins over config.yaml", func(t *testing.T) {
		t.Setenv("CRAZYSEQ_END", "2")
		fs := afero.NewMemMapFs()
		writeConfig(t, fs, "start: 1\nend: 3\noperators: \"+\"\n")
		r := execute(t, fs, "run")
		require.NoError(t, r.err)
		assert.Equal(t, "12 = 12\n3 = 1+2\n", r.stdout)
	})

	t.Run("json output", func(t *testing.T) {
		r := execute(t, afero.NewMemMapFs(), "--json", "run", "--start", "1", "--end", "2", "--operators", "+*")
		require.NoError(t, r.err)

		var entries []entryJSON
		require.NoError(t, json.Unmarshal([]byte(r.stdout), &entries))
		assert.Equal(t, []entryJSON{
			{Value: "12", Expression: "12"},
			{Value: "3", Expression: "1+2"},
			{Value: "2", Expression: "1*2"},
		}, entries)
	})

	t.Run("parallel matches sequential", func(t *testing.T) {
		seq := execute(t, afero.NewMemMapFs(), "run", "--start", "1", "--end", "4")
		par := execute(t, afero.NewMemMapFs(), "run", "--start", "1", "--end", "4", "--workers", "4")
		require.NoError(t, seq.err)
		require.NoError(t, par.err)
		assert.Equal(t, seq.stdout, par.stdout)
	})

	t.Run("verbose logs skipped expressions", func(t *testing.T) {
		r := execute(t, afero.NewMemMapFs(), "-v", "run", "--start", "1", "--end", "3", "--operators", "^", "--max-bits", "2")
		require.NoError(t, r.err)
		assert.Contains(t, r.stderr, "skipping expression")
		assert.NotContains(t, r.stderr, " 0 skipped")
	})
}

func TestRun_UserErrors(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "empty range", args: []string{"run", "--start", "5", "--end", "1"}, wantErr: search.ErrEmptyRange},
		{name: "too many digits", args: []string{"run", "--start", "0", "--end", "10"}, wantErr: search.ErrRangeTooLarge},
		{name: "unary operator", args: []string{"run", "--operators", "+-"}, wantErr: expr.ErrUnrecognizedDelimiter},
		{name: "no operators", args: []string{"run", "--operators", ""}, wantErr: search.ErrNoOperators},
		{name: "negative workers", args: []string{"run", "--workers", "-1"}, wantErr: search.ErrInvalidWorkers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, afero.NewMemMapFs(), tt.args...)
			require.Error(t, r.err)
			assert.ErrorIs(t, r.err, tt.wantErr)
			assert.Equal(t, exitUserError, exitCode(r.err))
			assert.Empty(t, r.stdout)
		})
	}
}

func TestRun_MalformedConfig(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "start: [\n")

	r := execute(t, fs, "run")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestRun_SaveAndInspect(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()
	dataDir := t.TempDir()

	r := execute(t, fs, "--data-dir", dataDir, "run", "--start", "1", "--end", "2", "--operators", "+", "--save")
	require.NoError(t, r.err)
	require.Contains(t, r.stderr, "saved run ")

	r = execute(t, fs, "--data-dir", dataDir, "--json", "runs", "list")
	require.NoError(t, r.err)
	var runs []runJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Start)
	assert.Equal(t, 2, runs[0].End)
	assert.Equal(t, "+", runs[0].Operators)
	assert.Equal(t, 2, runs[0].Values)

	id := runs[0].RunID
	r = execute(t, fs, "--data-dir", dataDir, "--json", "runs", "show", id)
	require.NoError(t, r.err)
	var shown runJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &shown))
	assert.Equal(t, id, shown.RunID)
	assert.Equal(t, []entryJSON{{Value: "12", Expression: "12"}, {Value: "3", Expression: "1+2"}}, shown.Results)

	r = execute(t, fs, "--data-dir", dataDir, "runs", "show", id)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "run "+id)
	assert.Contains(t, r.stdout, "3 = 1+2\n")

	r = execute(t, fs, "--data-dir", dataDir, "runs", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "RUN ID")
	assert.Contains(t, r.stdout, id)
}

func TestRunsShow_NotFound(t *testing.T) {
	isolateEnv(t)
	r := execute(t, afero.NewMemMapFs(), "--data-dir", t.TempDir(), "runs", "show", "0192f0a0-0000-7000-8000-000000000000")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, types.ErrRunNotFound)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestRun_UnknownBackend(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "backend: postgres\n")

	r := execute(t, fs, "--data-dir", t.TempDir(), "runs", "list")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestRun_ExportJSONL(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "ledger.jsonl")

	r := execute(t, afero.NewMemMapFs(), "run", "--start", "1", "--end", "2", "--operators", "+*", "--jsonl", path)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "exported 3 entries")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		lines = append(lines, rec)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, "1*2", lines[2]["expression"])
	assert.NotContains(t, lines[0], "run_id")
}

func TestInit(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()
	dataDir := filepath.Join(t.TempDir(), "data")

	r := execute(t, fs, "--data-dir", dataDir, "init")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "crazyseq initialized")

	data, err := afero.ReadFile(fs, filepath.Join(testConfigDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: "+dataDir)
	assert.Contains(t, string(data), "backend: sqlite")

	for _, name := range []string{"runs.jsonl", "results.jsonl"} {
		_, err := os.Stat(filepath.Join(dataDir, name))
		assert.NoError(t, err, "expected %s", name)
	}

	// The recorded data_dir is used when --data-dir is absent.
	r = execute(t, fs, "--json", "runs", "list")
	require.NoError(t, r.err)
	assert.Equal(t, "[]\n", r.stdout)
}

func TestInit_KeepsExistingSettings(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "end: 3\noperators: \"+/\"\n")

	r := execute(t, fs, "--data-dir", t.TempDir(), "init")
	require.NoError(t, r.err)

	cfg, err := readConfigFile(fs, filepath.Join(testConfigDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Start)
	assert.Equal(t, 3, cfg.End)
	assert.Equal(t, "+/", cfg.Operators)
}

func TestCatalog(t *testing.T) {
	isolateEnv(t)

	t.Run("lists every parenthesization", func(t *testing.T) {
		r := execute(t, afero.NewMemMapFs(), "catalog", "1+2*3")
		require.NoError(t, r.err)
		lines := strings.Split(strings.TrimSuffix(r.stdout, "\n"), "\n")
		assert.ElementsMatch(t, []string{
			"1+2*3", "(1+2*3)",
			"(1+2)*3", "((1+2)*3)", "((1+2))*3", "(((1+2))*3)",
			"1+(2*3)", "(1+(2*3))", "1+((2*3))", "(1+((2*3)))",
		}, lines)
	})

	t.Run("count", func(t *testing.T) {
		r := execute(t, afero.NewMemMapFs(), "catalog", "--count", "1+2+3+4")
		require.NoError(t, r.err)
		assert.Equal(t, "102\n", r.stdout)
	})

	t.Run("unique count", func(t *testing.T) {
		all, err := expr.Parenthesize([]string{"1", "2", "3", "4"}, []expr.Operator{expr.Add, expr.Add, expr.Add})
		require.NoError(t, err)

		r := execute(t, afero.NewMemMapFs(), "catalog", "--unique", "--count", "1+2+3+4")
		require.NoError(t, r.err)
		assert.Equal(t, strings.TrimSpace(r.stdout), strconv.Itoa(len(expr.Unique(all))))
	})

	t.Run("unrecognized delimiter", func(t *testing.T) {
		r := execute(t, afero.NewMemMapFs(), "catalog", "1-2")
		require.Error(t, r.err)
		assert.ErrorIs(t, r.err, expr.ErrUnrecognizedDelimiter)
		assert.Equal(t, exitUserError, exitCode(r.err))
	})
}

func TestCompress(t *testing.T) {
	isolateEnv(t)

	r := execute(t, afero.NewMemMapFs(), "compress", "1?2?3")
	require.NoError(t, r.err)
	assert.Equal(t, "123\n12?3\n1?23\n1?2?3\n", r.stdout)

	r = execute(t, afero.NewMemMapFs(), "compress", "1+2")
	assert.ErrorIs(t, r.err, expr.ErrUnrecognizedDelimiter)
}

func TestCount(t *testing.T) {
	isolateEnv(t)

	r := execute(t, afero.NewMemMapFs(), "count", "--max", "4")
	require.NoError(t, r.err)
	assert.Equal(t, "1 1\n2 2\n3 10\n4 102\n", r.stdout)

	r = execute(t, afero.NewMemMapFs(), "--json", "count", "--max", "6")
	require.NoError(t, r.err)
	var rows []catalogSizeJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &rows))
	require.Len(t, rows, 6)
	assert.Equal(t, catalogSizeJSON{Terms: 6, Size: "28506"}, rows[5])

	r = execute(t, afero.NewMemMapFs(), "count", "--max", "0")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestDefaultConfigCreated(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()

	r := execute(t, fs, "count", "--max", "1")
	require.NoError(t, r.err)

	cfg, err := readConfigFile(fs, filepath.Join(testConfigDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigFile(), cfg)
}

func TestVersion(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()

	r := execute(t, fs, "version")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "crazyseq v0.1.0")
	assert.Contains(t, r.stdout, modulePath)

	exists, err := afero.Exists(fs, testConfigDir)
	require.NoError(t, err)
	assert.False(t, exists, "version must not touch the config dir")
}

func TestExitCode(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "user", err: userError(base), want: exitUserError},
		{name: "system", err: sysError(base), want: exitSysError},
		{name: "wrapped system", err: errors.Join(errors.New("ctx"), sysError(base)), want: exitSysError},
		{name: "unclassified", err: base, want: exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestUnknownFlag(t *testing.T) {
	isolateEnv(t)
	r := execute(t, afero.NewMemMapFs(), "run", "--bogus")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))
}
