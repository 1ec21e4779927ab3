package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crazyseq/pkg/expr"
)

func TestEval(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		in   string
		want string
	}{
		{in: "1+2*3", want: "7\n"},
		{in: "(1+2)*3", want: "9\n"},
		{in: "2^3^2", want: "512\n"},
		{in: "1/2+1/3", want: "5/6\n"},
		{in: "2^(0/1)", want: "1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := execute(t, afero.NewMemMapFs(), "eval", tt.in)
			require.NoError(t, r.err)
			assert.Equal(t, tt.want, r.stdout)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		in      string
		config  string
		wantErr error
	}{
		{in: "1/0", wantErr: expr.ErrDivisionByZero},
		{in: "2^(1/2)", wantErr: expr.ErrNonIntegerExponent},
		{in: "(1+2", wantErr: expr.ErrUnbalanced},
		{in: "9^9^9", wantErr: expr.ErrOverflow},
		{in: "2^100", config: "max_bits: 64\n", wantErr: expr.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.config != "" {
				writeConfig(t, fs, tt.config)
			}
			r := execute(t, fs, "eval", tt.in)
			require.Error(t, r.err)
			assert.ErrorIs(t, r.err, tt.wantErr)
			assert.Equal(t, exitUserError, exitCode(r.err))
		})
	}
}

func TestEval_JSON(t *testing.T) {
	isolateEnv(t)
	r := execute(t, afero.NewMemMapFs(), "--json", "eval", "12/8")
	require.NoError(t, r.err)

	var got entryJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, entryJSON{Value: "3/2", Expression: "12/8"}, got)
}

func TestReplLine(t *testing.T) {
	isolateEnv(t)
	fs := afero.NewMemMapFs()
	cfg, err := loadConfig(fs, testConfigDir)
	require.NoError(t, err)
	a := &app{fs: fs, cfg: cfg}

	tests := []struct {
		line     string
		want     string
		wantQuit bool
	}{
		{line: "1+2*3", want: "= 7\n"},
		{line: "  (1+2)^2  ", want: "= 9\n"},
		{line: "1/0", want: "error: division by zero\n"},
		{line: ":catalog 1+2+3", want: "10 parenthesizations\n"},
		{line: ":catalog 1-2", want: "error: unrecognized delimiter '-' at offset 1\n"},
		{line: ":nope", want: "unknown command :nope. Type :help for commands.\n"},
		{line: ":quit", wantQuit: true},
		{line: ":q", wantQuit: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			quit := a.replLine(&out, tt.line)
			assert.Equal(t, tt.wantQuit, quit)
			assert.Equal(t, tt.want, out.String())
		})
	}

	var help bytes.Buffer
	assert.False(t, a.replLine(&help, ":help"))
	assert.Contains(t, help.String(), ":catalog")
}
