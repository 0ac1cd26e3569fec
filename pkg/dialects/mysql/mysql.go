// Package mysql provides the MySQL dialect. It starts from ANSI and
// changes how identifiers, strings and comments are written.
package mysql

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Name is the registry name of the dialect.
const Name = "mysql"

func init() {
	d, err := New()
	if err != nil {
		panic(fmt.Sprintf("mysql: %v", err))
	}
	if err := d.Expand(); err != nil {
		panic(fmt.Sprintf("mysql: %v", err))
	}
	dialect.Register(d)
}

// New builds the unexpanded MySQL dialect.
func New() (*dialect.Dialect, error) {
	d := ansi.New().CopyAs(Name)
	d.Description = "MySQL: backtick identifiers, double-quoted strings and '#' comments"

	d.PatchLexerMatchers([]lexer.Matcher{
		lexer.Regex("inline_comment", `(--|#)[^\n]*`, lexer.Comment()),
	})

	err := d.Replace(map[string]segment.Matchable{
		"QuotedIdentifierSegment": grammar.Named("back_quote", segment.Attrs{
			Type: ansi.TypeIdentifier, Name: "quoted_identifier", IsCode: true,
		}),
		"QuotedLiteralSegment": grammar.OneOf(
			grammar.Named("single_quote", segment.Attrs{Type: ansi.TypeLiteral, Name: "quoted_literal", IsCode: true}),
			grammar.Named("double_quote", segment.Attrs{Type: ansi.TypeLiteral, Name: "quoted_literal", IsCode: true}),
		),
	})
	if err != nil {
		return nil, err
	}

	d.Sets("unreserved_keywords").Add("div", "regexp", "unsigned", "zerofill")
	if err := ansi.AddKeywordSegments(d); err != nil {
		return nil, err
	}
	return d, nil
}
