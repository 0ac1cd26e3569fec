package ansi

import (
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func selectableGrammars() map[string]segment.Matchable {
	return map[string]segment.Matchable{
		// Things that behave like select statements.
		"SelectableGrammar": grammar.OneOf(ref("WithCompoundStatementSegment"), ref("NonWithSelectableGrammar")),
		// Things that may follow a WITH.
		"NonWithSelectableGrammar": grammar.OneOf(ref("SetExpressionSegment"), ref("NonSetSelectableGrammar")),
		// Things that may be joined by set operators.
		"NonSetSelectableGrammar": grammar.OneOf(ref("SelectStatementSegment"), ref("ValuesClauseSegment")),
	}
}

// aliased is a select target optionally followed by an alias.
func aliased(target grammar.Matchable) grammar.Matchable {
	return grammar.Sequence(target, optRef("AliasExpressionSegment"))
}

// ordered is an ORDER BY key with its optional direction and null order.
func ordered(key grammar.Matchable) grammar.Matchable {
	return grammar.Sequence(
		key,
		grammar.Opt(kwOneOf("asc", "desc")),
		grammar.Opt(grammar.Sequence(kw("nulls"), kwOneOf("first", "last"))),
	)
}

func selectKinds() []*segment.Kind {
	return []*segment.Kind{
		{
			Name: "SelectStatementSegment",
			Type: "select_statement",
			// Starting with the whole select clause keeps a set operator
			// inside it from ending the statement.
			MatchGrammar: grammar.StartsWith(ref("SelectClauseSegment")).Until(ref("SetOperatorSegment")),
			ParseGrammar: grammar.Sequence(
				ref("SelectClauseSegment"),
				// Closes the select clause indent after its whitespace.
				grammar.Dedent,
				optRef("FromClauseSegment"),
				optRef("WhereClauseSegment"),
				optRef("GroupByClauseSegment"),
				optRef("HavingClauseSegment"),
				optRef("OrderByClauseSegment"),
				optRef("LimitClauseSegment"),
			),
		},
		{
			Name: "SelectClauseSegment",
			Type: "select_clause",
			MatchGrammar: grammar.StartsWith(
				grammar.Sequence(kw("select"), optRef("WildcardExpressionSegment")),
			).Until(grammar.OneOf(kw("from"), kw("limit"), ref("SetOperatorSegment"))),
			ParseGrammar: grammar.Sequence(
				kw("select"),
				optRef("SelectClauseModifierSegment"),
				grammar.Indent,
				grammar.Delimited(ref("CommaSegment"), ref("SelectClauseElementSegment")).Trailing(),
			),
		},
		{
			Name:         "SelectClauseModifierSegment",
			Type:         "select_clause_modifier",
			MatchGrammar: kwOneOf("distinct", "all"),
		},
		{
			Name: "SelectClauseElementSegment",
			Type: "select_clause_element",
			// Elements are split before they are parsed.
			MatchGrammar: grammar.GreedyUntil(kw("from"), kw("limit"), ref("CommaSegment"), ref("SetOperatorSegment")),
			// Each operand kind carries its own alias so that a partial
			// operand cannot shadow a complete expression.
			ParseGrammar: grammar.OneOf(
				ref("WildcardExpressionSegment"),
				aliased(ref("LiteralGrammar")),
				aliased(ref("BareFunctionSegment")),
				aliased(ref("FunctionSegment")),
				aliased(ref("IntervalExpressionSegment")),
				aliased(ref("ColumnReferenceSegment")),
				aliased(ref("ExpressionSegment")),
			),
		},
		{
			Name:         "FromClauseSegment",
			Type:         "from_clause",
			MatchGrammar: grammar.StartsWith(kw("from")).Until(kwOneOf("where", "limit", "group", "order", "having", "qualify")),
			ParseGrammar: grammar.Sequence(
				kw("from"),
				grammar.Indent,
				grammar.Delimited(ref("CommaSegment"), ref("TableExpressionSegment")).Until(ref("JoinClauseSegment")),
				grammar.Dedent,
				grammar.AnyNumberOf(ref("JoinClauseSegment"), ref("JoinLikeClauseGrammar")),
			),
		},
		{
			Name: "TableExpressionSegment",
			Type: "table_expression",
			MatchGrammar: grammar.Sequence(
				optRef("PreTableFunctionKeywordsGrammar"),
				grammar.OneOf(
					ref("BareFunctionSegment"),
					ref("FunctionSegment"),
					ref("TableReferenceSegment"),
					grammar.Bracketed(ref("SelectableGrammar")),
				),
				grammar.Opt(grammar.OneOf(
					ref("PostTableExpressionGrammar"),
					grammar.Sequence(ref("AliasExpressionSegment"), ref("PostTableExpressionGrammar")),
					ref("AliasExpressionSegment"),
				)),
			),
		},
		{
			Name: "JoinClauseSegment",
			Type: "join_clause",
			MatchGrammar: grammar.Sequence(
				grammar.Opt(kwOneOf("full", "inner", "left", "right", "cross")),
				optKw("outer"),
				kw("join"),
				grammar.Indent,
				ref("TableExpressionSegment"),
				grammar.AnyNumberOf(
					grammar.Sequence(
						kw("on"),
						grammar.Indent,
						grammar.OneOf(ref("ExpressionSegment"), grammar.Bracketed(ref("ExpressionSegment"))),
						grammar.Dedent,
					),
					grammar.Sequence(
						kw("using"),
						grammar.Indent,
						grammar.Bracketed(grammar.Delimited(ref("CommaSegment"), ref("SingleIdentifierGrammar"))),
						grammar.Dedent,
					),
				),
				grammar.Dedent,
			),
		},
		{
			Name:         "WhereClauseSegment",
			Type:         "where_clause",
			MatchGrammar: grammar.StartsWith(kw("where")).Until(kwOneOf("limit", "group", "order", "having", "qualify")),
			ParseGrammar: grammar.Sequence(kw("where"), grammar.Indent, ref("ExpressionSegment"), grammar.Dedent),
		},
		{
			Name:         "GroupByClauseSegment",
			Type:         "groupby_clause",
			MatchGrammar: grammar.StartsWith(kwSeq("group", "by")).Until(kwOneOf("order", "limit", "having", "qualify")),
			ParseGrammar: grammar.Sequence(
				kw("group"),
				kw("by"),
				grammar.Indent,
				grammar.Delimited(ref("CommaSegment"),
					ref("ColumnReferenceSegment"),
					// GROUP BY 1
					ref("NumericLiteralSegment"),
					ref("ExpressionSegment"),
				).Until(kwOneOf("order", "limit", "having", "qualify")),
				grammar.Dedent,
			),
		},
		{
			Name:         "HavingClauseSegment",
			Type:         "having_clause",
			MatchGrammar: grammar.StartsWith(kw("having")).Until(kwOneOf("order", "limit", "qualify")),
			ParseGrammar: grammar.Sequence(
				kw("having"),
				grammar.Indent,
				grammar.OneOf(grammar.Bracketed(ref("ExpressionSegment")), ref("ExpressionSegment")),
				grammar.Dedent,
			),
		},
		{
			Name:         "OrderByClauseSegment",
			Type:         "orderby_clause",
			MatchGrammar: grammar.StartsWith(kw("order")).Until(kwOneOf("limit", "having", "qualify", "rows")),
			ParseGrammar: grammar.Sequence(
				kw("order"),
				kw("by"),
				grammar.Indent,
				grammar.Delimited(ref("CommaSegment"),
					ordered(ref("ColumnReferenceSegment")),
					// ORDER BY 1
					ordered(ref("NumericLiteralSegment")),
					ordered(ref("ExpressionSegment")),
				).Until(kw("limit")),
				grammar.Dedent,
			),
		},
		{
			Name: "LimitClauseSegment",
			Type: "limit_clause",
			MatchGrammar: grammar.Sequence(
				kw("limit"),
				grammar.OneOf(
					ref("NumericLiteralSegment"),
					grammar.Sequence(ref("NumericLiteralSegment"), kw("offset"), ref("NumericLiteralSegment")),
					grammar.Sequence(ref("NumericLiteralSegment"), ref("CommaSegment"), ref("NumericLiteralSegment")),
				),
			),
		},
		{
			Name: "ValuesClauseSegment",
			Type: "values_clause",
			MatchGrammar: grammar.Sequence(
				kwOneOf("value", "values"),
				grammar.Delimited(ref("CommaSegment"),
					grammar.Bracketed(
						grammar.Delimited(ref("CommaSegment"), ref("LiteralGrammar"), ref("IntervalExpressionSegment")),
					),
				),
			),
		},
		{
			Name:         "WithCompoundStatementSegment",
			Type:         "with_compound_statement",
			MatchGrammar: grammar.StartsWith(kw("with")),
			ParseGrammar: grammar.Sequence(
				kw("with"),
				grammar.Delimited(ref("CommaSegment"),
					grammar.Sequence(
						ref("SingleIdentifierGrammar"),
						kw("as"),
						grammar.Bracketed(ref("SelectableGrammar")),
					),
				).Until(kw("select")),
				ref("NonWithSelectableGrammar"),
			),
		},
		{
			Name: "SetOperatorSegment",
			Type: "set_operator",
			MatchGrammar: grammar.OneOf(
				grammar.Sequence(kw("union"), grammar.Opt(kwOneOf("distinct", "all"))),
				kw("intersect"),
				kw("except"),
				kw("minus"),
			),
		},
		{
			Name: "SetExpressionSegment",
			Type: "set_expression",
			MatchGrammar: grammar.Sequence(
				ref("NonSetSelectableGrammar"),
				grammar.AnyNumberOf(
					grammar.Sequence(ref("SetOperatorSegment"), ref("NonSetSelectableGrammar")),
				).AtLeast(1),
			),
		},
	}
}
