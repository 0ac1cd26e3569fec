package parser_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/templater"

	_ "github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/mysql"
)

func newParser(t *testing.T, name string, opts ...parser.Option) *parser.Parser {
	t.Helper()
	d, ok := dialect.Get(name)
	require.True(t, ok, "dialect %s not registered", name)
	opts = append([]parser.Option{parser.WithLogger(testutil.NewTestLogger(t))}, opts...)
	return parser.New(d, opts...)
}

func parse(t *testing.T, p *parser.Parser, sql string) *parser.Parsed {
	t.Helper()
	parsed, err := p.Parse(context.Background(), sql, "test.sql")
	require.NoError(t, err)
	return parsed
}

func raws(segs []segment.Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Raw()
	}
	return out
}

func codes(violations []*parser.ParseError) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Code
	}
	return out
}

// =============================================================================
// Scenarios
// =============================================================================

func TestParse_TrivialSelect(t *testing.T) {
	parsed := parse(t, newParser(t, "ansi"), "SELECT 1")
	require.NotNil(t, parsed.Tree)
	assert.Empty(t, parsed.Violations)

	assert.Equal(t, "file", parsed.Tree.Type())
	assert.Len(t, segment.GetChildren(parsed.Tree, "statement"), 1)
	elems := segment.RecursiveCrawl(parsed.Tree, "select_clause_element")
	assert.Equal(t, []string{"1"}, raws(elems))
	assert.Equal(t, "SELECT 1", parsed.Tree.Raw())
}

func TestParse_BracketsInDelimited(t *testing.T) {
	sql := "SELECT f(a, b), g(c) FROM t"
	parsed := parse(t, newParser(t, "ansi"), sql)
	assert.Empty(t, parsed.Violations)

	elems := segment.RecursiveCrawl(parsed.Tree, "select_clause_element")
	assert.Equal(t, []string{"f(a, b)", "g(c)"}, raws(elems))
	assert.Len(t, segment.RecursiveCrawl(parsed.Tree, "from_clause"), 1)
	assert.Equal(t, sql, parsed.Tree.Raw())
}

func TestParse_UnparsableRecovery(t *testing.T) {
	sql := "SELECT FROM t;"
	parsed := parse(t, newParser(t, "ansi"), sql)
	require.NotNil(t, parsed.Tree)

	stmts := segment.GetChildren(parsed.Tree, "statement")
	require.Len(t, stmts, 1)
	assert.NotEmpty(t, segment.Unparsables(stmts[0]))
	assert.Equal(t, sql, parsed.Tree.Raw())

	require.NotEmpty(t, parsed.Violations)
	assert.Contains(t, codes(parsed.Violations), parser.CodeParse)
	assert.Equal(t, 1, parsed.Violations[0].Pos.Line)
}

func TestParse_DialectOverride(t *testing.T) {
	sql := "SELECT `col` FROM t"

	mysqlParsed := parse(t, newParser(t, "mysql"), sql)
	assert.Empty(t, mysqlParsed.Violations)
	ids := segment.RecursiveCrawl(mysqlParsed.Tree, "identifier")
	assert.Contains(t, raws(ids), "`col`")

	ansiParsed := parse(t, newParser(t, "ansi"), sql)
	ids = segment.RecursiveCrawl(ansiParsed.Tree, "identifier")
	assert.NotContains(t, raws(ids), "`col`")
	assert.Contains(t, codes(ansiParsed.Violations), parser.CodeParse)
	assert.Equal(t, sql, ansiParsed.Tree.Raw())
}

func TestParse_BracketMismatch(t *testing.T) {
	sql := "SELECT (a + b FROM t"
	parsed := parse(t, newParser(t, "ansi"), sql)
	require.NotNil(t, parsed.Tree)

	assert.NotEmpty(t, parsed.Violations)
	assert.NotEmpty(t, segment.Unparsables(parsed.Tree))
	assert.Equal(t, sql, parsed.Tree.Raw())
}

// =============================================================================
// Tree properties
// =============================================================================

var validCorpus = []string{
	"SELECT 1",
	"SELECT a, b AS c FROM t WHERE a = 1 AND b > 2",
	"select a from t order by a desc nulls last limit 10",
	"SELECT a FROM t1 JOIN t2 ON t1.id = t2.id",
	"INSERT INTO t (a, b) VALUES (1, 'x'), (2, 'y')",
	"SELECT a FROM t UNION ALL SELECT b FROM u",
	"SELECT\n    a,\n    -- note\n    b\nFROM t;\n\nSELECT 2;",
	"SELECT a + b AS c FROM t",
	"SELECT a+b AS c",
	"SELECT 1 + 2 AS x FROM t",
	"SELECT a*b AS c, d FROM t",
	"SELECT f(x) + 1 total FROM t",
	"SELECT a FROM t ORDER BY a + b DESC, c",
}

var invalidCorpus = []string{
	"SELECT FROM t;",
	"SELECT (a + b FROM t",
	"SELEC garbage ((",
	"SELECT 1;;",
}

var corpus = append(append([]string{}, validCorpus...), invalidCorpus...)

func TestParse_RoundTrip(t *testing.T) {
	p := newParser(t, "ansi")
	for _, sql := range corpus {
		t.Run(sql, func(t *testing.T) {
			parsed := parse(t, p, sql)
			require.NotNil(t, parsed.Tree)
			assert.Equal(t, sql, parsed.Tree.Raw())
		})
	}
}

func TestParse_ValidCorpus(t *testing.T) {
	p := newParser(t, "ansi")
	for _, sql := range validCorpus {
		t.Run(sql, func(t *testing.T) {
			parsed := parse(t, p, sql)
			require.NotNil(t, parsed.Tree)
			assert.Empty(t, segment.Unparsables(parsed.Tree))
			assert.Empty(t, parsed.Violations)
		})
	}
}

func TestParse_InvalidCorpus(t *testing.T) {
	p := newParser(t, "ansi")
	for _, sql := range invalidCorpus {
		t.Run(sql, func(t *testing.T) {
			parsed := parse(t, p, sql)
			require.NotNil(t, parsed.Tree)
			assert.NotEmpty(t, parsed.Violations)
		})
	}
}

func TestParse_UnparsableSpan(t *testing.T) {
	p := newParser(t, "ansi")
	for _, sql := range invalidCorpus {
		t.Run(sql, func(t *testing.T) {
			parsed := parse(t, p, sql)
			for _, v := range parsed.Violations {
				if v.Code != parser.CodeParse {
					continue
				}
				require.True(t, v.Span.IsValid())
				assert.True(t, v.Span.Contains(v.Pos.Offset))
				assert.LessOrEqual(t, v.Span.End.Offset, len(sql))
				assert.NotEmpty(t, strings.TrimSpace(sql[v.Span.Start.Offset:v.Span.End.Offset]))
			}
		})
	}
}

func TestParse_LongExpression(t *testing.T) {
	sql := "SELECT a" + strings.Repeat(" + a", 200) + " AS total FROM t"
	parsed := parse(t, newParser(t, "ansi"), sql)
	assert.Empty(t, parsed.Violations)
	assert.Equal(t, sql, parsed.Tree.Raw())
}

func TestParse_AliasedExpression(t *testing.T) {
	parsed := parse(t, newParser(t, "ansi"), "SELECT a + b AS c, f(x) + 1 total FROM t")
	require.Empty(t, parsed.Violations)

	elems := segment.RecursiveCrawl(parsed.Tree, "select_clause_element")
	require.Len(t, elems, 2)
	for _, e := range elems {
		assert.NotNil(t, segment.GetChild(e, "expression"), e.Raw())
		assert.NotNil(t, segment.GetChild(e, "alias_expression"), e.Raw())
	}
}

func TestParse_Positions(t *testing.T) {
	p := newParser(t, "ansi")
	for _, sql := range corpus {
		t.Run(sql, func(t *testing.T) {
			parsed := parse(t, p, sql)

			leaves := segment.RawSegments(parsed.Tree)
			for i := 1; i < len(leaves); i++ {
				assert.LessOrEqual(t, leaves[i-1].Pos().Offset, leaves[i].Pos().Offset)
			}

			var check func(s segment.Segment)
			check = func(s segment.Segment) {
				children := s.Segments()
				if len(children) == 0 {
					return
				}
				assert.Equal(t, children[0].Pos().Offset, s.Pos().Offset, s.Type())
				for _, c := range children {
					check(c)
				}
			}
			check(parsed.Tree)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	p := newParser(t, "ansi")
	for _, sql := range corpus {
		first := segment.Stringify(parse(t, p, sql).Tree, false)
		second := segment.Stringify(parse(t, p, sql).Tree, false)
		assert.Equal(t, first, second, sql)
	}
}

// =============================================================================
// Options and edge cases
// =============================================================================

func TestParse_Empty(t *testing.T) {
	parsed := parse(t, newParser(t, "ansi"), "")
	assert.Nil(t, parsed.Tree)
	assert.Empty(t, parsed.Violations)
}

func TestParse_LexViolation(t *testing.T) {
	parsed := parse(t, newParser(t, "ansi"), "SELECT 1 # x")
	require.NotNil(t, parsed.Tree)
	assert.Contains(t, codes(parsed.Violations), parser.CodeLex)
	assert.Equal(t, "SELECT 1 # x", parsed.Tree.Raw())
}

func TestParse_Templated(t *testing.T) {
	tmpl, err := templater.Get(templater.StarlarkName, map[string]any{"table": "orders"})
	require.NoError(t, err)
	p := newParser(t, "ansi", parser.WithTemplater(tmpl))

	parsed := parse(t, p, "SELECT a FROM {{ table }}")
	assert.Empty(t, parsed.Violations)
	assert.Equal(t, "SELECT a FROM orders", parsed.Tree.Raw())
	assert.Equal(t, "SELECT a FROM {{ table }}", parsed.Templated.Source)
}

func TestParse_TemplateError(t *testing.T) {
	tmpl, err := templater.Get(templater.StarlarkName, nil)
	require.NoError(t, err)
	p := newParser(t, "ansi", parser.WithTemplater(tmpl))

	parsed := parse(t, p, "SELECT {{ a")
	assert.Nil(t, parsed.Tree)
	require.Len(t, parsed.Violations, 1)
	v := parsed.Violations[0]
	assert.Equal(t, parser.CodeTemplate, v.Code)
	assert.Equal(t, 1, v.Pos.Line)
	assert.Contains(t, v.Error(), "template error at line 1")
}

func TestParse_RecurseZero(t *testing.T) {
	p := newParser(t, "ansi", parser.WithRecurse(0))
	parsed := parse(t, p, "SELECT 1")
	require.NotNil(t, parsed.Tree)
	assert.Empty(t, segment.RecursiveCrawl(parsed.Tree, "select_clause_element"))
	assert.Equal(t, "SELECT 1", parsed.Tree.Raw())
}

func TestParse_Verbose(t *testing.T) {
	p := newParser(t, "ansi", parser.WithVerbosity(2))
	parsed := parse(t, p, "SELECT a FROM t")
	assert.Empty(t, parsed.Violations)
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newParser(t, "ansi").Parse(ctx, "SELECT 1", "test.sql")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{parser.CodeTemplate, "template error at line 2, column 5: boom"},
		{parser.CodeLex, "lexer error at line 2, column 5: boom"},
		{parser.CodeParse, "parse error at line 2, column 5: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			e := &parser.ParseError{Code: tt.code, Message: "boom"}
			e.Pos.Line, e.Pos.Column = 2, 5
			assert.Equal(t, tt.want, e.Error())
		})
	}
}
