package ansi

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Token types given to parsed raw segments.
const (
	TypeIdentifier          = "identifier"
	TypeLiteral             = "literal"
	TypeBinaryOperator      = "binary_operator"
	TypeComparisonOperator  = "comparison_operator"
	TypeComma               = "comma"
	TypeDot                 = "dot"
	TypeStatementTerminator = "statement_terminator"
)

func symbol(template, name, typ string) *grammar.StringParser {
	return &grammar.StringParser{
		Template: template,
		Attrs:    segment.Attrs{Type: typ, Name: name, IsCode: true},
	}
}

func symbolSegments() map[string]segment.Matchable {
	return map[string]segment.Matchable{
		"SemicolonSegment": symbol(";", "semicolon", TypeStatementTerminator),
		"ColonSegment":     symbol(":", "colon", "colon"),
		"SliceSegment":     symbol(":", "slice", "slice"),
		"CommaSegment":     symbol(",", "comma", TypeComma),
		"DotSegment":       symbol(".", "dot", TypeDot),
		"StarSegment":      symbol("*", "star", "star"),
		"TildeSegment":     symbol("~", "tilde", "tilde"),

		"StartBracketSegment":       symbol("(", "start_bracket", "start_bracket"),
		"EndBracketSegment":         symbol(")", "end_bracket", "end_bracket"),
		"StartSquareBracketSegment": symbol("[", "start_square_bracket", "start_square_bracket"),
		"EndSquareBracketSegment":   symbol("]", "end_square_bracket", "end_square_bracket"),
		"StartCurlyBracketSegment":  symbol("{", "start_curly_bracket", "start_curly_bracket"),
		"EndCurlyBracketSegment":    symbol("}", "end_curly_bracket", "end_curly_bracket"),

		"CastOperatorSegment": symbol("::", "casting_operator", "casting_operator"),
		"PlusSegment":         symbol("+", "plus", TypeBinaryOperator),
		"MinusSegment":        symbol("-", "minus", TypeBinaryOperator),
		"PositiveSegment":     symbol("+", "positive", "sign_indicator"),
		"NegativeSegment":     symbol("-", "negative", "sign_indicator"),
		"DivideSegment":       symbol("/", "divide", TypeBinaryOperator),
		"MultiplySegment":     symbol("*", "multiply", TypeBinaryOperator),
		"ModuloSegment":       symbol("%", "modulo", TypeBinaryOperator),
		"ConcatSegment":       symbol("||", "concatenate", TypeBinaryOperator),

		"EqualsSegment":               symbol("=", "equals", TypeComparisonOperator),
		"GreaterThanSegment":          symbol(">", "greater_than", TypeComparisonOperator),
		"LessThanSegment":             symbol("<", "less_than", TypeComparisonOperator),
		"GreaterThanOrEqualToSegment": symbol(">=", "greater_than_equal_to", TypeComparisonOperator),
		"LessThanOrEqualToSegment":    symbol("<=", "less_than_equal_to", TypeComparisonOperator),
		"NotEqualToSegment_a":         symbol("!=", "not_equal_to", TypeComparisonOperator),
		"NotEqualToSegment_b":         symbol("<>", "not_equal_to", TypeComparisonOperator),
	}
}

func lexicalGrammars() map[string]segment.Matchable {
	word := `(?i)[A-Z][A-Z0-9_]*`
	return map[string]segment.Matchable{
		"ParameterNameSegment": grammar.Regex(word, "", segment.Attrs{Type: "parameter", Name: "parameter", IsCode: true}),
		"FunctionNameSegment":  grammar.Regex(word, "", segment.Attrs{Type: "function_name", Name: "function_name", IsCode: true}),
		"DatatypeIdentifierSegment": grammar.Regex(word, "", segment.Attrs{
			Type: "data_type_identifier", Name: "data_type_identifier", IsCode: true,
		}),

		"QuotedIdentifierSegment": grammar.Named("double_quote", segment.Attrs{
			Type: TypeIdentifier, Name: "quoted_identifier", IsCode: true,
		}),
		"QuotedLiteralSegment": grammar.Named("single_quote", segment.Attrs{
			Type: TypeLiteral, Name: "quoted_literal", IsCode: true,
		}),
		"NumericLiteralSegment": grammar.Named("numeric_literal", segment.Attrs{
			Type: TypeLiteral, Name: "numeric_literal", IsCode: true,
		}),
		"TrueSegment": &grammar.StringParser{
			Template: "TRUE",
			Attrs:    segment.Attrs{Type: TypeLiteral, Name: "boolean_literal", IsCode: true},
		},
		"FalseSegment": &grammar.StringParser{
			Template: "FALSE",
			Attrs:    segment.Attrs{Type: TypeLiteral, Name: "boolean_literal", IsCode: true},
		},

		"SingleIdentifierGrammar": grammar.OneOf(ref("NakedIdentifierSegment"), ref("QuotedIdentifierSegment")),
		"BooleanLiteralGrammar":   grammar.OneOf(ref("TrueSegment"), ref("FalseSegment")),
		"LiteralGrammar": grammar.OneOf(
			ref("QuotedLiteralSegment"),
			ref("NumericLiteralSegment"),
			ref("BooleanLiteralGrammar"),
			ref("QualifiedNumericLiteralSegment"),
			// NULL is a keyword that is easily mistaken for an identifier.
			kw("null"),
		),

		"ArithmeticBinaryOperatorGrammar": grammar.OneOf(
			ref("PlusSegment"),
			ref("MinusSegment"),
			ref("DivideSegment"),
			ref("MultiplySegment"),
			ref("ModuloSegment"),
		),
		"StringBinaryOperatorGrammar":  grammar.OneOf(ref("ConcatSegment")),
		"BooleanBinaryOperatorGrammar": grammar.OneOf(ref("AndKeywordSegment"), ref("OrKeywordSegment")),
		"ComparisonOperatorGrammar": grammar.OneOf(
			ref("EqualsSegment"),
			ref("GreaterThanSegment"),
			ref("LessThanSegment"),
			ref("GreaterThanOrEqualToSegment"),
			ref("LessThanOrEqualToSegment"),
			ref("NotEqualToSegment_a"),
			ref("NotEqualToSegment_b"),
		),
		"BinaryOperatorGrammar": grammar.OneOf(
			ref("ArithmeticBinaryOperatorGrammar"),
			ref("StringBinaryOperatorGrammar"),
			ref("BooleanBinaryOperatorGrammar"),
			ref("ComparisonOperatorGrammar"),
		),
		"LikeGrammar": kwOneOf("like", "rlike"),

		"BracketedColumnReferenceListGrammar": grammar.Bracketed(
			grammar.Delimited(ref("CommaSegment"), ref("ColumnReferenceSegment")),
		),

		// Hook points for other dialects.
		"PreTableFunctionKeywordsGrammar": grammar.Nothing(),
		"PostTableExpressionGrammar":      grammar.Nothing(),
		"JoinLikeClauseGrammar":           grammar.Nothing(),
		"ShorthandCastGrammar":            grammar.Nothing(),
	}
}

// generators holds the entries built from the dialect's sets.
func generators() map[string]dialect.SegmentGenerator {
	return map[string]dialect.SegmentGenerator{
		// The operators AND and OR parse as binary operators, not keywords.
		"AndKeywordSegment": func(*dialect.Dialect) (segment.Matchable, error) {
			return &grammar.StringParser{
				Template: "AND",
				Attrs:    segment.Attrs{Type: TypeBinaryOperator, Name: "and", IsCode: true},
			}, nil
		},
		"OrKeywordSegment": func(*dialect.Dialect) (segment.Matchable, error) {
			return &grammar.StringParser{
				Template: "OR",
				Attrs:    segment.Attrs{Type: TypeBinaryOperator, Name: "or", IsCode: true},
			}, nil
		},
		"BareFunctionSegment": func(d *dialect.Dialect) (segment.Matchable, error) {
			return grammar.Regex(`(?i)`+alternation(d.Sets("bare_functions")), "",
				segment.Attrs{Type: "bare_function", Name: "bare_function", IsCode: true}), nil
		},
		// The pattern rejects numeric literals; the anti pattern rejects
		// reserved words.
		"NakedIdentifierSegment": func(d *dialect.Dialect) (segment.Matchable, error) {
			return grammar.Regex(`(?i)[A-Z0-9_]*[A-Z][A-Z0-9_]*`, alternation(d.Sets("reserved_keywords")),
				segment.Attrs{Type: TypeIdentifier, Name: "naked_identifier", IsCode: true}), nil
		},
		"DatetimeUnitSegment": func(d *dialect.Dialect) (segment.Matchable, error) {
			return grammar.Regex(`(?i)`+alternation(d.Sets("datetime_units")), "",
				segment.Attrs{Type: "date_part", Name: "date_part", IsCode: true}), nil
		},
	}
}

// alternation builds "(A|B|C)" from the set.
func alternation(s dialect.Set) string {
	words := s.Sorted()
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return "(" + strings.Join(words, "|") + ")"
}
