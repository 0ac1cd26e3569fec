package lint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/templater"
)

// trailing deletes whitespace at the end of a line.
var trailing = lint.RuleDef{
	ID:          "TS01",
	Name:        "test.trailing",
	Group:       "test",
	Description: "Trailing whitespace.",
	Severity:    core.SeverityWarning,
	AutoFixable: true,
	Crawl: func(ctx *lint.RuleContext) *lint.Result {
		next := ctx.NextRaw()
		if !ctx.Segment.IsType(segment.TypeWhitespace) || (next != nil && !next.IsType(segment.TypeNewline)) {
			return nil
		}
		return &lint.Result{Anchor: ctx.Segment, Fixes: []segment.Fix{segment.NewDelete(ctx.Segment)}}
	},
}

// upperIdentifiers recases identifiers.
var upperIdentifiers = lint.RuleDef{
	ID:          "TS02",
	Name:        "test.upper",
	Group:       "test",
	Description: "Identifier not upper case.",
	Severity:    core.SeverityInfo,
	AutoFixable: true,
	Crawl: func(ctx *lint.RuleContext) *lint.Result {
		r, ok := ctx.Segment.(*segment.Raw)
		if !ok || !r.IsType("identifier") || strings.ToUpper(r.Raw()) == r.Raw() {
			return nil
		}
		return &lint.Result{Anchor: r, Fixes: []segment.Fix{segment.NewEdit(r, r.Edit(strings.ToUpper(r.Raw())))}}
	},
}

func TestLinter_LintAndFix(t *testing.T) {
	l := testutil.NewLinter(t, "ansi", nil, trailing, upperIdentifiers)

	res, err := l.FixString(t.Context(), "SELECT a  \nFROM t\n", "q.sql")
	require.NoError(t, err)

	assert.Equal(t, []string{"TS02", "TS01", "TS02"}, testutil.Codes(res.Violations))
	for _, v := range res.Violations {
		assert.Equal(t, "q.sql", v.Path)
		assert.True(t, v.Fixable)
	}
	assert.Equal(t, "SELECT A\nFROM T\n", res.Fixed)
	assert.True(t, res.Changed())
	assert.Empty(t, res.Remaining)
}

func TestLinter_LintLeavesSourceAlone(t *testing.T) {
	l := testutil.NewLinter(t, "ansi", nil, trailing)

	res, err := l.LintString(t.Context(), "SELECT a  \n", "q.sql")
	require.NoError(t, err)
	assert.Len(t, res.Violations, 1)
	assert.Empty(t, res.Fixed)
	assert.False(t, res.Changed())
}

func TestLinter_RunawayLimit(t *testing.T) {
	// Every pass inserts one more space at the start of the file.
	grow := lint.RuleDef{
		ID:       "TS03",
		Severity: core.SeverityWarning,
		Crawl: func(ctx *lint.RuleContext) *lint.Result {
			if ctx.Parent() != nil {
				return nil
			}
			first := ctx.RawPost[0]
			return &lint.Result{Anchor: first, Fixes: []segment.Fix{segment.NewCreate(first, segment.NewWhitespace(" ", first.Pos()))}}
		},
	}
	cfg := lint.NewConfig()
	cfg.RunawayLimit = 3
	l := testutil.NewLinter(t, "ansi", cfg, grow)

	res, err := l.FixString(t.Context(), "SELECT 1", "q.sql")
	require.NoError(t, err)
	assert.Equal(t, "   SELECT 1", res.Fixed)
}

func TestLinter_RefusesOscillation(t *testing.T) {
	// Flips a and b forever; the second flip would restore the source.
	flip := lint.RuleDef{
		ID:       "TS04",
		Severity: core.SeverityWarning,
		Crawl: func(ctx *lint.RuleContext) *lint.Result {
			r, ok := ctx.Segment.(*segment.Raw)
			if !ok || !r.IsType("identifier") {
				return nil
			}
			to := map[string]string{"a": "b", "b": "a"}[r.Raw()]
			if to == "" {
				return nil
			}
			return &lint.Result{Anchor: r, Fixes: []segment.Fix{segment.NewEdit(r, r.Edit(to))}}
		},
	}
	l := testutil.NewLinter(t, "ansi", nil, flip)

	res, err := l.FixString(t.Context(), "SELECT a FROM t", "q.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT b FROM t", res.Fixed)
}

func TestLinter_Noqa(t *testing.T) {
	l := testutil.NewLinter(t, "ansi", nil, upperIdentifiers)

	res, err := l.FixString(t.Context(), "SELECT a -- noqa\nFROM t -- noqa: LT01\n", "q.sql")
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, 2, res.Violations[0].Line)
	assert.Equal(t, "SELECT a -- noqa\nFROM T -- noqa: LT01\n", res.Fixed)
}

func TestLinter_MalformedNoqa(t *testing.T) {
	l := testutil.NewLinter(t, "ansi", nil, trailing)

	res, err := l.LintString(t.Context(), "SELECT a -- noqa: what ever\n", "q.sql")
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, lint.CodeParse, res.Violations[0].Code)
	assert.Equal(t, core.SeverityError, res.Violations[0].Severity)
}

func TestLinter_ParseViolations(t *testing.T) {
	l := testutil.NewLinter(t, "ansi", nil, trailing)

	res, err := l.LintString(t.Context(), "SELECT 1 # x\n", "q.sql")
	require.NoError(t, err)
	codes := testutil.Codes(res.Violations)
	assert.Contains(t, codes, parser.CodeLex)
	for _, v := range res.Violations {
		if v.Code == parser.CodeLex {
			assert.Equal(t, core.SeverityError, v.Severity)
		}
	}
}

func TestLinter_TemplatedFileNotFixed(t *testing.T) {
	d, ok := dialect.Get("ansi")
	require.True(t, ok)
	tpl, err := templater.NewStarlark(map[string]any{"table": "orders"})
	require.NoError(t, err)
	p := parser.New(d, parser.WithTemplater(tpl))
	l, err := lint.NewLinter(p, nil, lint.WithRules(trailing))
	require.NoError(t, err)

	raw := "SELECT a  \nFROM {{ table }}\n"
	res, err := l.FixString(t.Context(), raw, "q.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a  \nFROM orders\n", res.Templated)
	assert.Len(t, res.Violations, 1)
	assert.Equal(t, raw, res.Fixed)
	assert.False(t, res.Changed())
}

func TestLinter_RuleSelection(t *testing.T) {
	postgresOnly := lint.RuleDef{ID: "TS05", Dialects: []string{"postgres"}, Crawl: trailing.Crawl}

	l := testutil.NewLinter(t, "ansi", nil, trailing, upperIdentifiers, postgresOnly)
	assert.Len(t, l.Rules(), 2, "dialect-restricted rule dropped")

	l = testutil.NewLinter(t, "postgres", nil, trailing, postgresOnly)
	assert.Len(t, l.Rules(), 2)

	cfg := lint.NewConfig().Disable("TS01")
	l = testutil.NewLinter(t, "ansi", cfg, trailing, upperIdentifiers)
	require.Len(t, l.Rules(), 1)
	assert.Equal(t, "TS02", l.Rules()[0].ID)
}

func TestLinter_SeverityOverride(t *testing.T) {
	cfg := lint.NewConfig().SetSeverity("TS01", core.SeverityError)
	l := testutil.NewLinter(t, "ansi", cfg, trailing)

	res, err := l.LintString(t.Context(), "SELECT 1 \n", "q.sql")
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, core.SeverityError, res.Violations[0].Severity)
}

func TestLinter_BadOptions(t *testing.T) {
	d, ok := dialect.Get("ansi")
	require.True(t, ok)
	cfg := lint.NewConfig().SetRuleOptions("TS01", map[string]any{"size": 1})
	_, err := lint.NewLinter(parser.New(d), cfg, lint.WithRules(trailing))
	assert.ErrorContains(t, err, "takes no options")
}

func TestLinter_EmptyFile(t *testing.T) {
	l := testutil.NewLinter(t, "ansi", nil, trailing)

	res, err := l.FixString(t.Context(), "", "q.sql")
	require.NoError(t, err)
	assert.Nil(t, res.Tree)
	assert.Empty(t, res.Violations)
	assert.Empty(t, res.Fixed)
}
