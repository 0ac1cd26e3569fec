package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intconfig "github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/internal/testutil"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules" // register built-in rules
)

func newTestEngine(t *testing.T, root string, project *intconfig.ProjectConfig, history bool) *Engine {
	t.Helper()
	cfg := Config{Project: project, Root: root, Logger: testutil.NewTestLogger(t)}
	if history {
		cfg.HistoryPath = filepath.Join(root, ".leaplint", "history.db")
	}
	eng, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		project *intconfig.ProjectConfig
		wantErr string
	}{
		{name: "defaults", project: nil},
		{name: "postgres", project: &intconfig.ProjectConfig{Dialect: "postgres"}},
		{name: "unknown dialect", project: &intconfig.ProjectConfig{Dialect: "oracle"}, wantErr: "unknown dialect"},
		{name: "unknown templater", project: &intconfig.ProjectConfig{Templater: "jinja"}, wantErr: "jinja"},
		{
			name: "bad severity",
			project: &intconfig.ProjectConfig{Lint: &intconfig.LintConfig{
				Severity: map[string]string{"LT01": "fatal"},
			}},
			wantErr: "unknown severity",
		},
		{
			name: "missing starlark rules",
			project: &intconfig.ProjectConfig{Lint: &intconfig.LintConfig{
				StarlarkRules: []string{"/does/not/exist.star"},
			}},
			wantErr: "starlark rules",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(Config{Project: tt.project})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer eng.Close()
			assert.Nil(t, eng.Store())
		})
	}
}

func TestEngine_LinterIsCachedPerDialect(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, false)

	a, err := eng.Linter("")
	require.NoError(t, err)
	b, err := eng.Linter("ANSI")
	require.NoError(t, err)
	assert.Same(t, a, b)

	pg, err := eng.Linter("postgres")
	require.NoError(t, err)
	assert.NotSame(t, a, pg)

	_, err = eng.Linter("nope")
	require.ErrorIs(t, err, ErrUnknownDialect)
}

func TestEngine_DisabledRules(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), &intconfig.ProjectConfig{
		Lint: &intconfig.LintConfig{Disable: []string{"lt01,am11"}},
	}, false)

	rules, err := eng.Rules()
	require.NoError(t, err)
	require.NotEmpty(t, rules)
	for _, r := range rules {
		assert.NotEqual(t, "LT01", r.ID)
		assert.NotEqual(t, "AM11", r.ID)
	}
}

func TestEngine_ParseLexLint(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, false)
	ctx := context.Background()

	parsed, err := eng.Parse(ctx, "", "SELECT a FROM t\n", "q.sql")
	require.NoError(t, err)
	require.NotNil(t, parsed.Tree)
	assert.Equal(t, "SELECT a FROM t\n", parsed.Tree.Raw())
	assert.Empty(t, parsed.Violations)

	lexed, err := eng.Lex(ctx, "", "SELECT 1", "q.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, lexed.Tokens)

	res, err := eng.Lint(ctx, "", "SELECT a   \nFROM t\n", "q.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, testutil.ByCode(res.Violations, "LT01"))

	fixed, err := eng.Fix(ctx, "", "SELECT a   \nFROM t\n", "q.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a\nFROM t\n", fixed.Fixed)

	_, err = eng.Parse(ctx, "teradata", "SELECT 1", "q.sql")
	require.ErrorIs(t, err, ErrUnknownDialect)
}

func TestEngine_LintFiles(t *testing.T) {
	root := t.TempDir()
	clean := testutil.WriteFile(t, root, "a/clean.sql", "SELECT a, b FROM t\n")
	messy := testutil.WriteFile(t, root, "b/messy.sql", "SELECT a   \nFROM t\n")

	eng := newTestEngine(t, root, nil, false)
	res, err := eng.LintFiles(context.Background(), []string{clean, messy}, RunOptions{Jobs: 2})
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	assert.Equal(t, clean, res.Files[0].Path)
	assert.Empty(t, res.Files[0].Violations)
	assert.Equal(t, messy, res.Files[1].Path)
	assert.NotEmpty(t, testutil.ByCode(res.Files[1].Violations, "LT01"))
	assert.Equal(t, len(res.Files[1].Violations), res.ViolationCount())
	assert.Empty(t, res.RunID)

	// Linting never touches the files
	assert.Equal(t, "SELECT a   \nFROM t\n", testutil.ReadTestFile(t, messy))
}

func TestEngine_LintFilesMissingFile(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, false)
	_, err := eng.LintFiles(context.Background(), []string{"/does/not/exist.sql"}, RunOptions{})
	require.Error(t, err)
}

func TestEngine_FixFiles(t *testing.T) {
	root := t.TempDir()
	messy := testutil.WriteFile(t, root, "messy.sql", "SELECT a   \nFROM t\n")

	t.Run("dry run", func(t *testing.T) {
		eng := newTestEngine(t, root, nil, false)
		res, err := eng.LintFiles(context.Background(), []string{messy}, RunOptions{Fix: true})
		require.NoError(t, err)
		assert.True(t, res.Files[0].Changed())
		assert.Equal(t, "SELECT a\nFROM t\n", res.Files[0].Fixed)
		assert.Equal(t, 0, res.ViolationCount())
		assert.Equal(t, "SELECT a   \nFROM t\n", testutil.ReadTestFile(t, messy))
	})

	t.Run("write", func(t *testing.T) {
		eng := newTestEngine(t, root, nil, false)
		_, err := eng.LintFiles(context.Background(), []string{messy}, RunOptions{Fix: true, Write: true})
		require.NoError(t, err)
		assert.Equal(t, "SELECT a\nFROM t\n", testutil.ReadTestFile(t, messy))
	})
}

func TestEngine_Stdin(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, false)
	res, err := eng.LintFiles(context.Background(), []string{StdinPath}, RunOptions{
		Fix:   true,
		Write: true,
		Stdin: strings.NewReader("SELECT a   \nFROM t\n"),
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, StdinPath, res.Files[0].Path)
	assert.Equal(t, "SELECT a\nFROM t\n", res.Files[0].Fixed)
}

func TestEngine_History(t *testing.T) {
	root := t.TempDir()
	clean := testutil.WriteFile(t, root, "clean.sql", "SELECT a FROM t\n")
	messy := testutil.WriteFile(t, root, "messy.sql", "SELECT a   \nFROM t\n")

	eng := newTestEngine(t, root, nil, true)
	require.NotNil(t, eng.Store())

	ctx := context.Background()
	first, err := eng.LintFiles(ctx, []string{clean}, RunOptions{})
	require.NoError(t, err)
	second, err := eng.LintFiles(ctx, []string{clean, messy}, RunOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, second.RunID)

	run, err := eng.Store().GetRun(first.RunID)
	require.NoError(t, err)
	assert.Equal(t, state.RunStatusClean, run.Status)
	assert.Equal(t, CommandLint, run.Command)
	assert.Equal(t, "ansi", run.Dialect)
	assert.Equal(t, 1, run.Files)

	run, err = eng.Store().GetRun(second.RunID)
	require.NoError(t, err)
	assert.Equal(t, state.RunStatusFailed, run.Status)
	assert.Equal(t, 2, run.Files)
	assert.Equal(t, second.ViolationCount(), run.Violations)

	counts, err := eng.Store().ViolationCounts(second.RunID)
	require.NoError(t, err)
	assert.Positive(t, counts["LT01"])

	runs, err := eng.Store().ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].ID)
}

func TestEngine_HistoryCancelled(t *testing.T) {
	root := t.TempDir()
	file := testutil.WriteFile(t, root, "q.sql", "SELECT 1\n")
	eng := newTestEngine(t, root, nil, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.LintFiles(ctx, []string{file}, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)

	runs, err := eng.Store().ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusCancelled, runs[0].Status)
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "queries")
	testutil.WriteFile(t, root, "queries/a.sql", "SELECT 1\n")
	testutil.WriteFile(t, root, ".leaplintignore", "skip.sql\n")

	eng := newTestEngine(t, root, nil, false)
	w, err := eng.NewWatcher([]string{dir})
	require.NoError(t, err)
	defer w.Close()

	changes := make(chan []string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, 20*time.Millisecond, func(changed []string) { changes <- changed })
	}()

	testutil.WriteFile(t, root, "queries/skip.sql", "SELECT 2\n")
	testutil.WriteFile(t, root, "queries/notes.txt", "x")
	testutil.WriteFile(t, root, "queries/a.sql", "SELECT 3\n")

	select {
	case changed := <-changes:
		assert.Equal(t, []string{filepath.Join(dir, "a.sql")}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	require.NoError(t, <-done)
}
