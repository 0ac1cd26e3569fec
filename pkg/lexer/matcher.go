package lexer

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Matcher recognises one kind of token at the start of the input.
type Matcher interface {
	// Name identifies the matcher; lexed tokens carry it as their name.
	Name() string
	// Match returns the length in bytes of the token at the start of s,
	// or 0 when there is none.
	Match(s string) int
	// Attrs are the attributes given to the tokens produced.
	Attrs() segment.Attrs
}

// StringMatcher matches a literal string.
type StringMatcher struct {
	name     string
	template string
	attrs    segment.Attrs
}

// String returns a matcher for the literal template.
func String(name, template string, attrs segment.Attrs) *StringMatcher {
	return &StringMatcher{name: name, template: template, attrs: withName(attrs, name)}
}

func (m *StringMatcher) Name() string         { return m.name }
func (m *StringMatcher) Attrs() segment.Attrs { return m.attrs }

func (m *StringMatcher) Match(s string) int {
	if strings.HasPrefix(s, m.template) {
		return len(m.template)
	}
	return 0
}

// RegexMatcher matches a regular expression anchored at the cursor.
type RegexMatcher struct {
	name  string
	re    *regexp.Regexp
	attrs segment.Attrs
}

// Regex returns a matcher for pattern. It panics if pattern does not
// compile, like regexp.MustCompile.
func Regex(name, pattern string, attrs segment.Attrs) *RegexMatcher {
	return &RegexMatcher{name: name, re: regexp.MustCompile(`^(?:` + pattern + `)`), attrs: withName(attrs, name)}
}

func (m *RegexMatcher) Name() string         { return m.name }
func (m *RegexMatcher) Attrs() segment.Attrs { return m.attrs }

func (m *RegexMatcher) Match(s string) int {
	loc := m.re.FindStringIndex(s)
	if loc == nil {
		return 0
	}
	return loc[1]
}

func withName(a segment.Attrs, name string) segment.Attrs {
	if a.Name == "" {
		a.Name = name
	}
	return a
}

// ---------- attribute shorthands ----------

// Code is the attribute set of a code token.
func Code() segment.Attrs {
	return segment.Attrs{Type: segment.TypeCode, IsCode: true}
}

// Whitespace is the attribute set of a whitespace token.
func Whitespace() segment.Attrs {
	return segment.Attrs{Type: segment.TypeWhitespace, IsWhitespace: true}
}

// Newline is the attribute set of a newline token.
func Newline() segment.Attrs {
	return segment.Attrs{Type: segment.TypeNewline, IsWhitespace: true}
}

// Comment is the attribute set of a comment token.
func Comment() segment.Attrs {
	return segment.Attrs{Type: segment.TypeComment, IsComment: true}
}

// LastResort is the default matcher used when nothing else matches.
func LastResort() Matcher {
	return Regex("unlexable", `[^\t\n ]+`, segment.Attrs{Type: segment.TypeUnlexable, IsCode: true})
}

// DefaultMatchers returns the ANSI matcher list. The first matcher that
// matches wins, so order matters: multi-character operators come before
// their single-character prefixes.
func DefaultMatchers() []Matcher {
	return []Matcher{
		Regex("whitespace", `[\t ]+`, Whitespace()),
		Regex("inline_comment", `(--|#)[^\n]*`, Comment()),
		Regex("block_comment", `/\*([^*]|\*+[^*/])*\*+/`, Comment()),
		Regex("single_quote", `'([^'\\]|\\.|'')*'`, Code()),
		Regex("double_quote", `"([^"\\]|\\.|"")*"`, Code()),
		Regex("back_quote", "`[^`]*`", Code()),
		Regex("numeric_literal", `([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?`, Code()),
		String("greater_than_or_equal", ">=", Code()),
		String("less_than_or_equal", "<=", Code()),
		String("not_equal", "!=", Code()),
		String("not_equal", "<>", Code()),
		String("casting_operator", "::", Code()),
		String("concat_operator", "||", Code()),
		String("newline", "\r\n", Newline()),
		String("newline", "\n", Newline()),
		String("equals", "=", Code()),
		String("greater_than", ">", Code()),
		String("less_than", "<", Code()),
		String("dot", ".", Code()),
		String("comma", ",", Code()),
		String("plus", "+", Code()),
		String("minus", "-", Code()),
		String("divide", "/", Code()),
		String("star", "*", Code()),
		String("percent", "%", Code()),
		String("start_bracket", "(", Code()),
		String("end_bracket", ")", Code()),
		String("start_square_bracket", "[", Code()),
		String("end_square_bracket", "]", Code()),
		String("start_curly_bracket", "{", Code()),
		String("end_curly_bracket", "}", Code()),
		String("semicolon", ";", Code()),
		Regex("code", `[0-9a-zA-Z_]+`, Code()),
	}
}
