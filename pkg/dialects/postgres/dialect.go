// Package postgres provides the PostgreSQL dialect. It starts from ANSI
// and adds ILIKE and the :: cast operator to expressions.
package postgres

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Name is the registry name of the dialect.
const Name = "postgres"

func init() {
	d, err := New()
	if err != nil {
		panic(fmt.Sprintf("postgres: %v", err))
	}
	if err := d.Expand(); err != nil {
		panic(fmt.Sprintf("postgres: %v", err))
	}
	dialect.Register(d)
}

// postgresReservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of frequently problematic identifiers.
var postgresReservedWords = []string{
	"user", "all", "any", "array", "asymmetric", "authorization", "binary",
	"both", "cast", "check", "collate", "column", "current_catalog",
	"current_role", "current_schema", "current_user", "deferrable", "do",
	"fetch", "for", "freeze", "grant", "ilike", "initially", "lateral",
	"leading", "localtime", "localtimestamp", "natural", "only", "overlaps",
	"placing", "returning", "session_user", "similar", "some", "symmetric",
	"to", "trailing", "variadic", "verbose", "window",
}

// New builds the unexpanded PostgreSQL dialect.
func New() (*dialect.Dialect, error) {
	d := ansi.New().CopyAs(Name)
	d.Description = "PostgreSQL: ILIKE and :: casts"

	d.Sets("reserved_keywords").Add(postgresReservedWords...)
	d.Sets("bare_functions").Add("current_user", "session_user", "localtime", "localtimestamp", "current_catalog", "current_role", "current_schema")
	if err := ansi.AddKeywordSegments(d); err != nil {
		return nil, err
	}

	err := d.Replace(map[string]segment.Matchable{
		"LikeGrammar": grammar.OneOf(
			grammar.RefKeyword("like"),
			grammar.RefKeyword("ilike"),
			grammar.RefKeyword("rlike"),
		),
		// x::int binds tighter than any operator.
		"ShorthandCastGrammar": grammar.AnyNumberOf(grammar.Ref("ShorthandCastSegment")),
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
