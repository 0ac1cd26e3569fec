package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/layout"
)

type layoutCase struct {
	name  string
	sql   string
	lines []int  // lines of the expected violations
	fixed string // empty when the fix leaves sql unchanged
}

func runLayoutCases(t *testing.T, rule lint.RuleDef, tests []layoutCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := testutil.ByCode(testutil.LintSQL(t, tt.sql, rule), rule.ID)
			lines := make([]int, 0, len(found))
			for _, v := range found {
				lines = append(lines, v.Line)
			}
			assert.Equal(t, tt.lines, lines)

			want := tt.fixed
			if want == "" {
				want = tt.sql
			}
			fixed := testutil.FixSQL(t, tt.sql, rule)
			assert.Equal(t, want, fixed)
			assert.Equal(t, fixed, testutil.FixSQL(t, fixed, rule), "fixing is idempotent")
		})
	}
}

func TestTrailingWhitespace(t *testing.T) {
	runLayoutCases(t, layout.TrailingWhitespace, []layoutCase{
		{name: "clean", sql: "SELECT a\nFROM t\n", lines: []int{}},
		{name: "before newline", sql: "SELECT a   \nFROM t\n", lines: []int{1}, fixed: "SELECT a\nFROM t\n"},
		{name: "end of file", sql: "SELECT a\nFROM t  ", lines: []int{2}, fixed: "SELECT a\nFROM t"},
		{name: "blank line", sql: "SELECT a\n  \nFROM t\n", lines: []int{2}, fixed: "SELECT a\n\nFROM t\n"},
	})
}

func TestMixedIndentation(t *testing.T) {
	runLayoutCases(t, layout.MixedIndentation, []layoutCase{
		{name: "spaces", sql: "SELECT\n    a\nFROM t\n", lines: []int{}},
		{name: "tabs", sql: "SELECT\n\ta\nFROM t\n", lines: []int{}},
		{name: "mixed", sql: "SELECT\n\t  a\nFROM t\n", lines: []int{2}, fixed: "SELECT\n      a\nFROM t\n"},
		{name: "inside a line", sql: "SELECT a \t FROM t\n", lines: []int{}},
	})
}

func TestIndentUnit(t *testing.T) {
	runLayoutCases(t, layout.IndentUnit, []layoutCase{
		{name: "multiple", sql: "SELECT\n    a,\n        b\nFROM t\n", lines: []int{}},
		{name: "round up", sql: "SELECT\n   a\nFROM t\n", lines: []int{2}, fixed: "SELECT\n    a\nFROM t\n"},
		{name: "round down", sql: "SELECT\n     a\nFROM t\n", lines: []int{2}, fixed: "SELECT\n    a\nFROM t\n"},
		{name: "to nothing", sql: "SELECT\n a\nFROM t\n", lines: []int{2}, fixed: "SELECT\na\nFROM t\n"},
		{name: "tabs ignored", sql: "SELECT\n\t a\nFROM t\n", lines: []int{}},
	})
}

func TestIndentUnit_Option(t *testing.T) {
	cfg := lint.NewConfig()
	cfg.SetRuleOptions("LT03", map[string]any{"tab_space_size": "2"})
	l := testutil.NewLinter(t, "ansi", cfg, layout.IndentUnit)

	res, err := l.LintString(t.Context(), "SELECT\n  a,\n   b\nFROM t\n", "test.sql")
	require.NoError(t, err)
	found := testutil.ByCode(res.Violations, "LT03")
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].Line)
	assert.Contains(t, found[0].Description, "not a multiple of 2")
}

func TestIndentStyle(t *testing.T) {
	runLayoutCases(t, layout.IndentStyle, []layoutCase{
		{name: "all spaces", sql: "SELECT\n    a,\n    b\nFROM t\n", lines: []int{}},
		{name: "all tabs", sql: "SELECT\n\ta,\n\tb\nFROM t\n", lines: []int{}},
		{name: "tab after spaces", sql: "SELECT\n    a,\n\tb,\n\tc\nFROM t\n", lines: []int{3, 4}},
		{name: "spaces after tab", sql: "SELECT\n\ta,\n  b\nFROM t\n", lines: []int{3}},
	})
}

func TestSpaceBeforeComma(t *testing.T) {
	runLayoutCases(t, layout.SpaceBeforeComma, []layoutCase{
		{name: "clean", sql: "SELECT a, b FROM t\n", lines: []int{}},
		{name: "space", sql: "SELECT a , b FROM t\n", lines: []int{1}, fixed: "SELECT a, b FROM t\n"},
		{name: "leading comma", sql: "SELECT a\n    , b\nFROM t\n", lines: []int{}},
	})
}

func TestSpaceAfterComma(t *testing.T) {
	runLayoutCases(t, layout.SpaceAfterComma, []layoutCase{
		{name: "clean", sql: "SELECT a, b FROM t\n", lines: []int{}},
		{name: "missing", sql: "SELECT a,b FROM t\n", lines: []int{1}, fixed: "SELECT a, b FROM t\n"},
		{name: "too many", sql: "SELECT a,   b FROM t\n", lines: []int{1}, fixed: "SELECT a, b FROM t\n"},
		{name: "end of line", sql: "SELECT a,\n    b\nFROM t\n", lines: []int{}},
		{name: "comment", sql: "SELECT a, -- first\n    b\nFROM t\n", lines: []int{}},
	})
}

func TestOperatorSpacing(t *testing.T) {
	runLayoutCases(t, layout.OperatorSpacing, []layoutCase{
		{name: "clean", sql: "SELECT a + b FROM t WHERE c = 1\n", lines: []int{}},
		{name: "tight", sql: "SELECT a+b FROM t\n", lines: []int{1}, fixed: "SELECT a + b FROM t\n"},
		{name: "wide comparison", sql: "SELECT a FROM t WHERE c  =  1\n", lines: []int{1}, fixed: "SELECT a FROM t WHERE c = 1\n"},
		{name: "signed number", sql: "SELECT -1 FROM t\n", lines: []int{}},
		{name: "line break", sql: "SELECT a\n    + b FROM t\n", lines: []int{}},
	})
}

func TestFinalNewline(t *testing.T) {
	runLayoutCases(t, layout.FinalNewline, []layoutCase{
		{name: "clean", sql: "SELECT a FROM t\n", lines: []int{}},
		{name: "missing", sql: "SELECT a FROM t", lines: []int{1}, fixed: "SELECT a FROM t\n"},
		{name: "too many", sql: "SELECT a FROM t\n\n\n", lines: []int{1}, fixed: "SELECT a FROM t\n"},
		{name: "trailing spaces", sql: "SELECT a FROM t  ", lines: []int{1}, fixed: "SELECT a FROM t\n"},
		{name: "comment last", sql: "SELECT a FROM t -- done", lines: []int{1}, fixed: "SELECT a FROM t -- done\n"},
		{name: "whitespace only", sql: "  \n", lines: []int{}},
	})
}
