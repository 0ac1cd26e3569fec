package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	clitestutil "github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/internal/testutil"
)

func decodeLintOutput(t *testing.T, s string) output.LintOutput {
	t.Helper()
	var out output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(s), &out), s)
	return out
}

func TestLintCommand_Project(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewLintCommand(), "", "--format", "json")
	require.ErrorIs(t, err, ErrViolations)

	out := decodeLintOutput(t, stdout)
	assert.Equal(t, 2, out.Summary.FilesAnalyzed)
	require.Len(t, out.Files, 2)
	assert.Equal(t, filepath.Join("queries", "clean.sql"), out.Files[0].Path)
	assert.Empty(t, out.Files[0].Violations)
	assert.Equal(t, filepath.Join("queries", "messy.sql"), out.Files[1].Path)
	assert.NotEmpty(t, testutil.ByCode(out.Files[1].Violations, "LT01"))
	assert.Equal(t, len(out.Files[1].Violations), out.Summary.TotalIssues)
}

func TestLintCommand_Clean(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewLintCommand(), "", filepath.Join("queries", "clean.sql"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No lint issues found in 1 files")
}

func TestLintCommand_Markdown(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewLintCommand(), "", "queries")
	require.ErrorIs(t, err, ErrViolations)
	assert.Contains(t, stdout, filepath.Join("queries", "messy.sql"))
	assert.Contains(t, stdout, "LT01")
	assert.Contains(t, stdout, "Summary:")
	assert.NotContains(t, stdout, "clean.sql")
	clitestutil.AssertNoANSI(t, stdout)
}

func TestLintCommand_Disable(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewLintCommand(), "", "--format", "json", "--disable", "LT01", "queries/messy.sql")
	require.ErrorIs(t, err, ErrViolations)
	out := decodeLintOutput(t, stdout)
	require.Len(t, out.Files, 1)
	assert.Empty(t, testutil.ByCode(out.Files[0].Violations, "LT01"))
	assert.NotEmpty(t, out.Files[0].Violations)
}

func TestLintCommand_Stdin(t *testing.T) {
	inProject(t)

	stdout, _, err := runCommand(t, NewLintCommand(), clitestutil.MessySQL, "--format", "json", "-")
	require.ErrorIs(t, err, ErrViolations)
	out := decodeLintOutput(t, stdout)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "-", out.Files[0].Path)
}

func TestLintCommand_NoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := runCommand(t, NewLintCommand(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL files found")
}

func TestFixCommand_DiffOnly(t *testing.T) {
	dir := inProject(t)

	stdout, _, err := runCommand(t, NewFixCommand(), "", "--diff-only", "queries/messy.sql")
	if err != nil {
		require.ErrorIs(t, err, ErrViolations)
	}
	assert.Contains(t, stdout, "--- a/queries/messy.sql")
	assert.Contains(t, stdout, "+++ b/queries/messy.sql")
	assert.Contains(t, stdout, "-SELECT a ,b   ")

	// Nothing written
	assert.Equal(t, clitestutil.MessySQL, testutil.ReadTestFile(t, filepath.Join(dir, "queries", "messy.sql")))
}

func TestFixCommand_Write(t *testing.T) {
	dir := inProject(t)

	_, _, err := runCommand(t, NewFixCommand(), "", "--format", "json", "queries")
	if err != nil {
		require.ErrorIs(t, err, ErrViolations)
	}

	fixed := testutil.ReadTestFile(t, filepath.Join(dir, "queries", "messy.sql"))
	assert.NotEqual(t, clitestutil.MessySQL, fixed)
	assert.NotContains(t, fixed, "   \n")
	assert.NotContains(t, fixed, " ,")

	// Clean files and ignored files are left alone
	assert.Equal(t, clitestutil.CleanSQL, testutil.ReadTestFile(t, filepath.Join(dir, "queries", "clean.sql")))
	assert.Equal(t, clitestutil.IgnoredSQL, testutil.ReadTestFile(t, filepath.Join(dir, "vendor", "third_party.sql")))
}

func TestFixCommand_Stdin(t *testing.T) {
	inProject(t)

	stdout, stderr, err := runCommand(t, NewFixCommand(), "SELECT a   \nFROM t\n", "-")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a\nFROM t\n", stdout)
	assert.Empty(t, strings.TrimSpace(stderr))
}
