package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/commands"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"violations", commands.ErrViolations, ExitViolations},
		{"wrapped violations", fmt.Errorf("%w: 3 parse violations", commands.ErrViolations), ExitViolations},
		{"other error", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestRootCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "version", args: []string{"version"}, want: "leaplint v" + Version},
		{name: "version flag", args: []string{"--version"}, want: "leaplint " + Version},
		{name: "help", args: []string{"--help"}, want: "dialect-aware SQL parser and linter"},
		{name: "dialects", args: []string{"dialects", "--format", "json"}, want: `"name": "ansi"`},
		{name: "bad dialect", args: []string{"--dialect", "nope", "dialects"}, wantErr: "unknown dialect"},
		{name: "bad log level", args: []string{"--log-level", "loud", "dialects"}, wantErr: "log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, ExitError, ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig(t.Context())
	assert.Equal(t, "ansi", cfg.Dialect)
	assert.NotNil(t, GetRenderer(t.Context()))
}
