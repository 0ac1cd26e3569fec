// Package ansi provides the base ANSI SQL dialect: its lexer, keyword sets,
// bracket pairs and the grammar of statements, clauses and expressions.
//
// This dialect serves as the foundation for all other SQL dialects. Other
// dialects start from New, copy it with CopyAs and override entries.
package ansi

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Name is the registry name of the dialect.
const Name = "ansi"

func init() {
	d := New()
	if err := d.Expand(); err != nil {
		panic(fmt.Sprintf("ansi: %v", err))
	}
	dialect.Register(d)
}

// New builds a fresh, unexpanded ANSI dialect. Callers deriving a dialect
// copy the result rather than the registered instance so that generators
// run against their own sets.
func New() *dialect.Dialect {
	d := dialect.New(Name)
	d.Description = "ANSI SQL, the base of every other dialect"

	d.SetLexerMatchers(lexer.DefaultMatchers())
	// '#' only starts a comment in some dialects.
	d.PatchLexerMatchers([]lexer.Matcher{
		lexer.Regex("inline_comment", `--[^\n]*`, lexer.Comment()),
	})
	d.SetBracketPairs(
		segment.BracketPair{Type: grammar.BracketRound, Start: "StartBracketSegment", End: "EndBracketSegment"},
		segment.BracketPair{Type: grammar.BracketSquare, Start: "StartSquareBracketSegment", End: "EndSquareBracketSegment"},
		segment.BracketPair{Type: grammar.BracketCurly, Start: "StartCurlyBracketSegment", End: "EndCurlyBracketSegment"},
	)

	d.Sets("reserved_keywords").Add(reservedKeywords...)
	d.Sets("unreserved_keywords").Add(unreservedKeywords...)
	d.Sets("bare_functions").Add("current_timestamp", "current_time", "current_date")
	d.Sets("datetime_units").Add(datetimeUnits...)

	mustAdd(d, symbolSegments())
	mustAdd(d, lexicalGrammars())
	mustAdd(d, expressionGrammars())
	mustAdd(d, selectableGrammars())
	mustAdd(d, kinds(expressionKinds()...))
	mustAdd(d, kinds(selectKinds()...))
	mustAdd(d, kinds(statementKinds()...))
	for name, gen := range generators() {
		if err := d.AddGenerator(name, gen); err != nil {
			panic(fmt.Sprintf("ansi: %v", err))
		}
	}
	if err := AddKeywordSegments(d); err != nil {
		panic(fmt.Sprintf("ansi: %v", err))
	}
	return d
}

// AddKeywordSegments adds a keyword segment for every word of the
// reserved and unreserved keyword sets that does not have one yet.
// Dialects that extend the sets call it again after doing so.
func AddKeywordSegments(d *dialect.Dialect) error {
	words := d.Sets("reserved_keywords").Clone()
	for w := range d.Sets("unreserved_keywords") {
		words.Add(w)
	}
	for _, w := range words.Sorted() {
		err := d.AddGenerator(grammar.KeywordName(w), keywordGenerator(w))
		if err != nil && !errors.Is(err, dialect.ErrDuplicateEntry) {
			return err
		}
	}
	return nil
}

func keywordGenerator(word string) dialect.SegmentGenerator {
	return func(*dialect.Dialect) (segment.Matchable, error) {
		return grammar.Keyword(word), nil
	}
}

// ---------- helpers ----------

func mustAdd(d *dialect.Dialect, entries map[string]segment.Matchable) {
	if err := d.Add(entries); err != nil {
		panic(fmt.Sprintf("ansi: %v", err))
	}
}

// kinds keys segment kinds by their entry name.
func kinds(ks ...*segment.Kind) map[string]segment.Matchable {
	out := make(map[string]segment.Matchable, len(ks))
	for _, k := range ks {
		out[k.Name] = k
	}
	return out
}

func ref(name string) grammar.Matchable { return grammar.Ref(name) }

func optRef(name string) grammar.Matchable { return grammar.OptionalRef(name) }

func kw(word string) grammar.Matchable { return grammar.RefKeyword(word) }

func optKw(word string) grammar.Matchable { return grammar.Opt(grammar.RefKeyword(word)) }

// kwOneOf matches one of the keywords.
func kwOneOf(words ...string) *grammar.OneOfGrammar {
	opts := make([]grammar.Matchable, len(words))
	for i, w := range words {
		opts[i] = kw(w)
	}
	return grammar.OneOf(opts...)
}

// kwSeq matches the keywords in order.
func kwSeq(words ...string) *grammar.SequenceGrammar {
	elems := make([]grammar.Matchable, len(words))
	for i, w := range words {
		elems[i] = kw(w)
	}
	return grammar.Sequence(elems...)
}
