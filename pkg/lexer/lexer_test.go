package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func lexDefault(t *testing.T, src string) *lexer.Result {
	t.Helper()
	res, err := lexer.New(lexer.DefaultMatchers(), nil).Lex(src)
	require.NoError(t, err)
	return res
}

func names(segs []segment.Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Name()
	}
	return out
}

func TestLex_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"SELECT 1",
		"select a, b from t where a >= 1;\n",
		"SELECT 'it''s', \"quoted\", `tick` FROM t -- trailing\n",
		"/* block\n comment */ SELECT\r\n  x::int || 'y'",
		"SELECT a<>b, c!=d, 1.5e10, .5 FROM t; SELECT 2;",
		"SELECT $1 @@ ?",
		"\t\t\n\n",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			res := lexDefault(t, src)
			assert.Equal(t, src, segment.JoinRaw(res.Segments))
		})
	}
}

func TestLex_Tokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "select",
			src:  "SELECT a, 1 FROM t",
			want: []string{"code", "whitespace", "code", "comma", "whitespace", "numeric_literal", "whitespace", "code", "whitespace", "code"},
		},
		{
			name: "operators before their prefixes",
			src:  "a>=b<>c::d",
			want: []string{"code", "greater_than_or_equal", "code", "not_equal", "code", "casting_operator", "code"},
		},
		{
			name: "comments",
			src:  "a -- x\n/* y */b",
			want: []string{"code", "whitespace", "inline_comment", "newline", "block_comment", "code"},
		},
		{
			name: "quotes",
			src:  `'a''b' "c" ` + "`d`",
			want: []string{"single_quote", "whitespace", "double_quote", "whitespace", "back_quote"},
		},
		{
			name: "brackets",
			src:  "([{}]);",
			want: []string{"start_bracket", "start_square_bracket", "start_curly_bracket", "end_curly_bracket", "end_square_bracket", "end_bracket", "semicolon"},
		},
		{
			name: "crlf",
			src:  "a\r\nb",
			want: []string{"code", "newline", "code"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := lexDefault(t, tt.src)
			assert.Equal(t, tt.want, names(res.Segments))
			assert.Empty(t, res.Violations)
		})
	}
}

func TestLex_Attributes(t *testing.T) {
	res := lexDefault(t, "a -- c\n")
	require.Len(t, res.Segments, 4)

	assert.True(t, res.Segments[0].IsCode())
	assert.True(t, res.Segments[1].IsWhitespace())
	assert.True(t, res.Segments[2].IsComment())
	assert.False(t, res.Segments[2].IsCode())
	assert.True(t, res.Segments[3].IsWhitespace())
	assert.Equal(t, segment.TypeNewline, res.Segments[3].Type())
}

func TestLex_Positions(t *testing.T) {
	res := lexDefault(t, "SELECT 1;\nSELECT\n  2")

	type want struct {
		raw            string
		idx, line, col int
		offset         int
	}
	expected := []want{
		{"SELECT", 1, 1, 1, 0},
		{" ", 1, 1, 7, 6},
		{"1", 1, 1, 8, 7},
		{";", 1, 1, 9, 8},
		{"\n", 2, 1, 10, 9},
		{"SELECT", 2, 2, 1, 10},
		{"\n", 2, 2, 7, 16},
		{"  ", 2, 3, 1, 17},
		{"2", 2, 3, 3, 19},
	}
	require.Len(t, res.Segments, len(expected))
	for i, w := range expected {
		s := res.Segments[i]
		assert.Equal(t, w.raw, s.Raw(), "token %d", i)
		assert.Equal(t, w.idx, s.Pos().StatementIndex, "statement index of %q", w.raw)
		assert.Equal(t, w.line, s.Pos().Line, "line of token %d", i)
		assert.Equal(t, w.col, s.Pos().Column, "column of token %d", i)
		assert.Equal(t, w.offset, s.Pos().Offset, "offset of token %d", i)
	}
}

func TestLex_Unlexable(t *testing.T) {
	res := lexDefault(t, "SELECT $x @y")

	require.Len(t, res.Violations, 2)
	assert.Equal(t, "$x", res.Violations[0].Raw)
	assert.Equal(t, 8, res.Violations[0].Pos.Column)
	assert.Contains(t, res.Violations[0].Error(), "unable to lex")
	assert.Equal(t, "@y", res.Violations[1].Raw)

	var unlexable []string
	for _, s := range res.Segments {
		if s.IsType(segment.TypeUnlexable) {
			assert.True(t, s.IsCode())
			unlexable = append(unlexable, s.Raw())
		}
	}
	assert.Equal(t, []string{"$x", "@y"}, unlexable)
}

func TestLex_FirstMatcherWins(t *testing.T) {
	matchers := []lexer.Matcher{
		lexer.String("short", "a", lexer.Code()),
		lexer.String("long", "ab", lexer.Code()),
	}
	res, err := lexer.New(matchers, nil).Lex("ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"short", "unlexable"}, names(res.Segments))
}

func TestLex_ZeroLengthMatchIgnored(t *testing.T) {
	matchers := []lexer.Matcher{
		lexer.Regex("maybe", `x*`, lexer.Code()),
		lexer.Regex("word", `[a-z]+`, lexer.Code()),
	}
	res, err := lexer.New(matchers, nil).Lex("abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"word"}, names(res.Segments))
}

func TestLex_NoProgress(t *testing.T) {
	res, err := lexer.New(nil, nil).Lex("a b")

	var lexErr *lexer.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 2, lexErr.Pos.Column)
	assert.True(t, strings.Contains(lexErr.Error(), "no matcher"))
	assert.Equal(t, "a", segment.JoinRaw(res.Segments))
}
