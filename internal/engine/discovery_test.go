package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
)

func TestIgnore_Match(t *testing.T) {
	ig, err := ParseIgnore(strings.NewReader(`
# comments and blank lines are skipped

vendor
build/*.sql
./generated/
*_tmp.sql
`))
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"vendor", true},
		{"vendor/lib/a.sql", true},
		{"src/vendor/a.sql", true},
		{"build/out.sql", true},
		{"build/nested/out.sql", false},
		{"generated/x.sql", true},
		{"models/report_tmp.sql", true},
		{"models/report.sql", false},
		{"", false},
		{".", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ig.Match(tt.path))
		})
	}

	var none *Ignore
	assert.False(t, none.Match("a.sql"))
}

func TestParseIgnore_BadPattern(t *testing.T) {
	_, err := ParseIgnore(strings.NewReader("[unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad pattern")
}

func TestLoadIgnore_Missing(t *testing.T) {
	ig, err := LoadIgnore(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ig.Match("a.sql"))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, ".leaplintignore", "vendor\n")
	a := testutil.WriteFile(t, root, "models/a.sql", "SELECT 1\n")
	b := testutil.WriteFile(t, root, "models/nested/B.SQL", "SELECT 1\n")
	testutil.WriteFile(t, root, "models/readme.md", "# docs\n")
	testutil.WriteFile(t, root, "vendor/lib.sql", "SELECT 1\n")
	notes := testutil.WriteFile(t, root, "notes.txt", "SELECT 1\n")

	eng := newTestEngine(t, root, nil, false)

	t.Run("directory", func(t *testing.T) {
		files, err := eng.Discover([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, files)
	})

	t.Run("explicit file of any extension", func(t *testing.T) {
		files, err := eng.Discover([]string{notes, a, a})
		require.NoError(t, err)
		assert.Equal(t, []string{a, notes}, files)
	})

	t.Run("explicit ignored file", func(t *testing.T) {
		files, err := eng.Discover([]string{filepath.Join(root, "vendor", "lib.sql")})
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("stdin passes through", func(t *testing.T) {
		files, err := eng.Discover([]string{StdinPath})
		require.NoError(t, err)
		assert.Equal(t, []string{StdinPath}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := eng.Discover([]string{filepath.Join(root, "missing")})
		require.Error(t, err)
	})
}

func TestDiscover_DefaultsToWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "q.sql", "SELECT 1\n")
	t.Chdir(root)

	eng := newTestEngine(t, ".", nil, false)
	files, err := eng.Discover(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"q.sql"}, files)
}
