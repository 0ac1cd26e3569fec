package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	clitestutil "github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func TestRulesCommand_JSON(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewRulesCommand(), "", "--format", "json")
	require.NoError(t, err)

	var out RulesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	assert.Equal(t, lint.Count(), out.Total)
	assert.Len(t, out.Rules, out.Total)
	assert.Less(t, out.Enabled, out.Total)

	byID := make(map[string]RuleEntry, len(out.Rules))
	for _, r := range out.Rules {
		byID[r.ID] = r
	}
	require.Contains(t, byID, "AM11")
	assert.False(t, byID["AM11"].Enabled, "AM11 is disabled in leaplint.yaml")
	require.Contains(t, byID, "LT01")
	assert.True(t, byID["LT01"].Enabled)
	assert.True(t, byID["LT01"].Fixable)

	for i := 1; i < len(out.Rules); i++ {
		assert.Less(t, out.Rules[i-1].ID, out.Rules[i].ID, "rules should be sorted by ID")
	}
}

func TestRulesCommand_Group(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewRulesCommand(), "", "--format", "json", "--group", "layout")
	require.NoError(t, err)

	var out RulesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	require.NotEmpty(t, out.Rules)
	for _, r := range out.Rules {
		assert.Equal(t, "layout", r.Group, r.ID)
	}
}

func TestRulesCommand_Markdown(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewRulesCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Lint Rules (")
	assert.Contains(t, stdout, "LT01")
	assert.Contains(t, stdout, "layout.trailing_whitespace")
	clitestutil.AssertNoANSI(t, stdout)
}

func TestRulesCommand_Show(t *testing.T) {
	inProject(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "markdown",
			args: []string{"LT01"},
			want: []string{"# LT01 - layout.trailing_whitespace", "Unnecessary trailing whitespace."},
		},
		{
			name: "case insensitive",
			args: []string{"lt05"},
			want: []string{"# LT05 - layout.space_before_comma"},
		},
		{
			name:    "unknown rule",
			args:    []string{"ZZ99"},
			wantErr: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCommand(t, NewRulesCommand(), "", tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
		})
	}
}

func TestRulesCommand_ShowJSON(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewRulesCommand(), "", "--format", "json", "AM11")
	require.NoError(t, err)

	var entry RuleEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entry), stdout)
	assert.Equal(t, "AM11", entry.ID)
	assert.Equal(t, "ambiguous.select_star", entry.Name)
	assert.False(t, entry.Enabled)
	assert.Equal(t, lint.DefaultDocsBaseURL+"#AM11", entry.DocURL)
}

func TestDialectsCommand(t *testing.T) {
	inProject(t)

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewDialectsCommand(), "", "--format", "json")
		require.NoError(t, err)

		var out []output.DialectOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)

		byName := make(map[string]output.DialectOutput, len(out))
		for _, d := range out {
			byName[d.Name] = d
		}
		require.Contains(t, byName, "ansi")
		require.Contains(t, byName, "postgres")
		assert.True(t, byName["ansi"].Default)
		assert.False(t, byName["postgres"].Default)
		assert.Equal(t, "ansi", byName["postgres"].Parent)
		assert.Positive(t, byName["ansi"].Rules)
	})

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewDialectsCommand(), "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Dialects")
		assert.Contains(t, stdout, "mysql")
	})
}
