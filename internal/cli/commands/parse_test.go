package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	clitestutil "github.com/leapstack-labs/leaplint/internal/cli/testutil"
)

func TestParseCommand_JSON(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewParseCommand(), "", "--format", "json", "queries/clean.sql")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	assert.Equal(t, "queries/clean.sql", out["path"])
	tree, ok := out["tree"].(map[string]any)
	require.True(t, ok, "tree should be an object: %v", out["tree"])
	assert.Contains(t, tree, "file")
	assert.Empty(t, out["violations"])
}

func TestParseCommand_Markdown(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewParseCommand(), "", "queries/clean.sql")
	require.NoError(t, err)
	assert.Contains(t, stdout, "select_statement")
	assert.Contains(t, stdout, "|file:")
	clitestutil.AssertValidMarkdown(t, stdout)
}

func TestParseCommand_Multiple(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewParseCommand(), "", "--format", "json", "queries")
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	require.Len(t, out, 2)
	assert.Equal(t, "queries/clean.sql", out[0]["path"])
	assert.Equal(t, "queries/messy.sql", out[1]["path"])
}

func TestParseCommand_Strict(t *testing.T) {
	inProject(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"strict reports violations", []string{"--strict", "-"}, true},
		{"violations without strict", []string{"-"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCommand(t, NewParseCommand(), "SELECT FROM t;\n", tt.args...)
			assert.Contains(t, stdout, "PRS")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrViolations)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLexCommand(t *testing.T) {
	inProject(t)

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewLexCommand(), "", "--format", "json", "queries/clean.sql")
		require.NoError(t, err)

		var out output.LexOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
		require.NotEmpty(t, out.Tokens)
		assert.Equal(t, "SELECT", out.Tokens[0].Raw)
		assert.Equal(t, 1, out.Tokens[0].Line)
		assert.Empty(t, out.Violations)
	})

	t.Run("lex error", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewLexCommand(), "SELECT 1 # x\n", "--format", "json", "-")
		require.NoError(t, err)

		var out output.LexOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
		require.NotEmpty(t, out.Violations)
		assert.Equal(t, "LXR", out.Violations[0].Code)
	})

	t.Run("markdown table", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewLexCommand(), "", "queries/clean.sql")
		require.NoError(t, err)
		assert.Contains(t, strings.ToUpper(stdout), "POSITION")
		assert.Contains(t, stdout, `"SELECT"`)
	})
}
