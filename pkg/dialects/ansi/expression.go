package ansi

import (
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// The expression grammar is split in levels: A is a full expression with
// operators, C a single operand or CASE, D an operand with its accessors.

func expressionGrammars() map[string]segment.Matchable {
	return map[string]segment.Matchable{
		"Expression_A_Grammar": grammar.Sequence(
			grammar.OneOf(
				ref("Expression_C_Grammar"),
				grammar.Sequence(
					grammar.OneOf(ref("PositiveSegment"), ref("NegativeSegment"), kw("not")),
					ref("Expression_A_Grammar"),
				),
			),
			grammar.AnyNumberOf(
				grammar.OneOf(
					grammar.Sequence(
						grammar.OneOf(
							ref("BinaryOperatorGrammar"),
							grammar.Sequence(optKw("not"), ref("LikeGrammar")),
						),
						ref("Expression_A_Grammar"),
						grammar.Opt(grammar.Sequence(kw("escape"), ref("Expression_A_Grammar"))),
					),
					grammar.Sequence(
						optKw("not"),
						kw("in"),
						grammar.Bracketed(
							grammar.OneOf(
								grammar.Delimited(ref("CommaSegment"), ref("LiteralGrammar"), ref("IntervalExpressionSegment")),
								ref("SelectableGrammar"),
							),
						),
					),
					grammar.Sequence(optKw("not"), kw("in"), ref("FunctionSegment")),
					grammar.Sequence(
						kw("is"),
						optKw("not"),
						grammar.OneOf(kw("null"), kw("nan"), kw("notnull"), kw("isnull"), ref("BooleanLiteralGrammar")),
					),
					// Only arithmetic inside BETWEEN, so that its AND is not
					// taken as a boolean operator.
					grammar.Sequence(
						optKw("not"),
						kw("between"),
						ref("Expression_C_Grammar"),
						grammar.AnyNumberOf(grammar.Sequence(ref("ArithmeticBinaryOperatorGrammar"), ref("Expression_C_Grammar"))),
						kw("and"),
						ref("Expression_C_Grammar"),
						grammar.AnyNumberOf(grammar.Sequence(ref("ArithmeticBinaryOperatorGrammar"), ref("Expression_C_Grammar"))),
					),
				),
			),
		),
		"Expression_C_Grammar": grammar.OneOf(
			ref("Expression_D_Grammar"),
			ref("CaseExpressionSegment"),
			grammar.Sequence(kw("exists"), ref("SelectStatementSegment")),
		),
		"Expression_D_Grammar": grammar.Sequence(
			grammar.OneOf(
				ref("BareFunctionSegment"),
				ref("FunctionSegment"),
				grammar.Bracketed(grammar.OneOf(ref("Expression_A_Grammar"), ref("SelectableGrammar"))),
				ref("SelectStatementSegment"),
				ref("LiteralGrammar"),
				ref("IntervalExpressionSegment"),
				ref("ColumnReferenceSegment"),
				ref("ArrayLiteralSegment"),
			),
			optRef("Accessor_Grammar"),
			optRef("ShorthandCastGrammar"),
		),
		"Accessor_Grammar": grammar.AnyNumberOf(ref("ArrayAccessorSegment")),

		"FunctionContentsExpressionGrammar": ref("ExpressionSegment"),
		"FunctionContentsGrammar": grammar.OneOf(
			// CAST(x AS type)
			grammar.Sequence(ref("ExpressionSegment"), kw("as"), ref("DatatypeSegment")),
			// EXTRACT(unit FROM x)
			grammar.Sequence(
				grammar.OneOf(ref("DatetimeUnitSegment"), ref("ExpressionSegment")),
				kw("from"),
				ref("ExpressionSegment"),
			),
			grammar.Sequence(
				optKw("distinct"),
				grammar.OneOf(
					// COUNT(*)
					ref("StarSegment"),
					grammar.Delimited(ref("CommaSegment"), ref("FunctionContentsExpressionGrammar")),
				),
			),
		),
		"PostFunctionGrammar": grammar.Sequence(
			grammar.Opt(grammar.Sequence(kwOneOf("ignore", "respect"), kw("nulls"))),
			ref("OverClauseSegment"),
		),
	}
}

func expressionKinds() []*segment.Kind {
	// Identifiers joined by dots, with no gaps.
	reference := func() grammar.Matchable {
		return grammar.Sequence(
			ref("SingleIdentifierGrammar"),
			grammar.AnyNumberOf(
				grammar.Sequence(ref("DotSegment"), ref("SingleIdentifierGrammar")).WithCodeOnly(false),
			).WithCodeOnly(false),
		).WithCodeOnly(false)
	}

	return []*segment.Kind{
		{
			Name:         "ExpressionSegment",
			Type:         "expression",
			MatchGrammar: ref("Expression_A_Grammar"),
		},
		{
			Name:         "ObjectReferenceSegment",
			Type:         "object_reference",
			MatchGrammar: reference(),
		},
		{
			Name:         "TableReferenceSegment",
			Type:         "table_reference",
			MatchGrammar: reference(),
		},
		{
			Name:         "ColumnReferenceSegment",
			Type:         "column_reference",
			MatchGrammar: reference(),
		},
		{
			Name: "WildcardIdentifierSegment",
			Type: "wildcard_identifier",
			MatchGrammar: grammar.Sequence(
				grammar.AnyNumberOf(
					grammar.Sequence(ref("SingleIdentifierGrammar"), ref("DotSegment")).WithCodeOnly(false),
				).WithCodeOnly(false),
				ref("StarSegment"),
			).WithCodeOnly(false),
		},
		{
			Name:         "WildcardExpressionSegment",
			Type:         "wildcard_expression",
			MatchGrammar: grammar.Sequence(ref("WildcardIdentifierSegment")),
		},
		{
			Name: "AliasExpressionSegment",
			Type: "alias_expression",
			MatchGrammar: grammar.Sequence(
				optKw("as"),
				ref("SingleIdentifierGrammar"),
			),
		},
		{
			Name: "QualifiedNumericLiteralSegment",
			Type: "numeric_literal",
			MatchGrammar: grammar.Sequence(
				grammar.OneOf(ref("PlusSegment"), ref("MinusSegment")),
				ref("NumericLiteralSegment"),
			).WithCodeOnly(false),
		},
		{
			Name: "IntervalExpressionSegment",
			Type: "interval_expression",
			MatchGrammar: grammar.Sequence(
				kw("interval"),
				grammar.OneOf(
					grammar.Sequence(
						ref("NumericLiteralSegment"),
						grammar.OneOf(ref("QuotedLiteralSegment"), ref("DatetimeUnitSegment")),
					),
					ref("QuotedLiteralSegment"),
				),
			),
		},
		{
			Name: "ArrayLiteralSegment",
			Type: "array_literal",
			MatchGrammar: grammar.Bracketed(
				grammar.Delimited(ref("CommaSegment"), ref("ExpressionSegment")),
			).Square(),
		},
		{
			Name: "ArrayAccessorSegment",
			Type: "array_accessor",
			MatchGrammar: grammar.Bracketed(
				grammar.Delimited(ref("SliceSegment"), ref("NumericLiteralSegment"), ref("ExpressionSegment")),
			).Square(),
		},
		{
			Name: "DatatypeSegment",
			Type: "data_type",
			MatchGrammar: grammar.Sequence(
				ref("DatatypeIdentifierSegment"),
				grammar.Opt(grammar.Bracketed(
					grammar.Opt(grammar.Delimited(ref("CommaSegment"), ref("ExpressionSegment"))),
				)),
			),
		},
		{
			Name: "ShorthandCastSegment",
			Type: "cast_expression",
			MatchGrammar: grammar.Sequence(
				ref("CastOperatorSegment"),
				ref("DatatypeSegment"),
			).WithCodeOnly(false),
		},
		{
			Name: "FunctionSegment",
			Type: "function",
			MatchGrammar: grammar.Sequence(
				grammar.Sequence(
					ref("FunctionNameSegment"),
					// Some functions take no arguments.
					grammar.Bracketed(optRef("FunctionContentsGrammar")),
				),
				optRef("PostFunctionGrammar"),
			),
		},
		{
			Name: "OverClauseSegment",
			Type: "over_clause",
			MatchGrammar: grammar.Sequence(
				kw("over"),
				grammar.Bracketed(
					optRef("PartitionClauseSegment"),
					optRef("OrderByClauseSegment"),
					optRef("FrameClauseSegment"),
				),
			),
		},
		{
			Name:         "PartitionClauseSegment",
			Type:         "partitionby_clause",
			MatchGrammar: grammar.StartsWith(kw("partition")).Until(kwOneOf("order", "rows")),
			ParseGrammar: grammar.Sequence(
				kw("partition"),
				kw("by"),
				grammar.Indent,
				grammar.OneOf(
					// Brackets are optional here.
					grammar.Bracketed(grammar.Delimited(ref("CommaSegment"), ref("ExpressionSegment"))),
					grammar.Delimited(ref("CommaSegment"), ref("ExpressionSegment")),
				),
				grammar.Dedent,
			),
		},
		{
			Name:         "FrameClauseSegment",
			Type:         "frame_clause",
			MatchGrammar: grammar.StartsWith(kw("rows")),
		},
		{
			Name: "CaseExpressionSegment",
			Type: "case_expression",
			MatchGrammar: grammar.Sequence(
				kw("case"),
				optRef("ExpressionSegment"),
				grammar.Indent,
				grammar.AnyNumberOf(
					grammar.Sequence(
						kw("when"),
						grammar.Indent,
						ref("ExpressionSegment"),
						kw("then"),
						ref("ExpressionSegment"),
						grammar.Dedent,
					),
				).AtLeast(1),
				grammar.Opt(grammar.Sequence(kw("else"), grammar.Indent, ref("ExpressionSegment"), grammar.Dedent)),
				grammar.Dedent,
				kw("end"),
			),
		},
	}
}
