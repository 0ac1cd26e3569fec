package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/state"
)

func TestHistoryCommand_Empty(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewHistoryCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")

	stdout, _, err = runCommand(t, NewHistoryCommand(), "", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)

	_, _, err = runCommand(t, NewHistoryCommand(), "", "missing-id")
	require.ErrorIs(t, err, state.ErrRunNotFound)
}

func TestHistoryCommand_RecordedRun(t *testing.T) {
	inProject(t)

	_, _, err := runCommand(t, NewLintCommand(), "", "--history", "--format", "json")
	require.ErrorIs(t, err, ErrViolations)

	stdout, _, err := runCommand(t, NewHistoryCommand(), "", "--format", "json")
	require.NoError(t, err)

	var runs []output.RunOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs), stdout)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, "lint", run.Command)
	assert.Equal(t, "ansi", run.Dialect)
	assert.Equal(t, "failed", run.Status)
	assert.Equal(t, 2, run.Files)
	assert.Positive(t, run.Violations)
	assert.NotNil(t, run.FinishedAt)

	t.Run("show run", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewHistoryCommand(), "", "--format", "json", run.ID)
		require.NoError(t, err)

		var detail struct {
			output.RunOutput
			Details []state.RunViolation `json:"details"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &detail), stdout)
		assert.Equal(t, run.ID, detail.ID)
		assert.Len(t, detail.Details, run.Violations)
		assert.Positive(t, detail.Counts["LT01"])
		for _, v := range detail.Details {
			assert.Equal(t, "queries/messy.sql", v.Path)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := runCommand(t, NewHistoryCommand(), "")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Runs (1)")
		assert.Contains(t, stdout, run.ID)
	})

	t.Run("unknown run", func(t *testing.T) {
		_, _, err := runCommand(t, NewHistoryCommand(), "", "missing-id")
		require.ErrorIs(t, err, state.ErrRunNotFound)
	})
}
