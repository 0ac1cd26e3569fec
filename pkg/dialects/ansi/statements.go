package ansi

import (
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// FileKind is the root kind of every parse tree. It has no match grammar:
// the parser instantiates it directly around the lexed tokens.
var FileKind = &segment.Kind{
	Name: "FileSegment",
	Type: "file",
	ParseGrammar: grammar.Delimited(ref("SemicolonSegment"), ref("StatementSegment")).
		WithCodeOnly(false).
		Trailing(),
}

func statementKinds() []*segment.Kind {
	return []*segment.Kind{
		FileKind,
		{
			Name:         "StatementSegment",
			Type:         "statement",
			MatchGrammar: grammar.GreedyUntil(ref("SemicolonSegment")),
			ParseGrammar: grammar.OneOf(
				ref("SelectableGrammar"),
				ref("InsertStatementSegment"),
				ref("TransactionStatementSegment"),
				ref("DropStatementSegment"),
				ref("CreateTableStatementSegment"),
				ref("CreateViewStatementSegment"),
				ref("DeleteStatementSegment"),
				ref("UpdateStatementSegment"),
			),
		},
		{
			Name:         "InsertStatementSegment",
			Type:         "insert_statement",
			MatchGrammar: grammar.StartsWith(kw("insert")),
			ParseGrammar: grammar.Sequence(
				kw("insert"),
				optKw("overwrite"),
				optKw("into"),
				ref("TableReferenceSegment"),
				optRef("BracketedColumnReferenceListGrammar"),
				ref("SelectableGrammar"),
			),
		},
		{
			Name: "TransactionStatementSegment",
			Type: "transaction_statement",
			MatchGrammar: grammar.Sequence(
				kwOneOf("commit", "rollback"),
				optKw("work"),
				grammar.Opt(grammar.Sequence(kw("and"), optKw("no"), kw("chain"))),
			),
		},
		{
			Name:         "DeleteStatementSegment",
			Type:         "delete_statement",
			MatchGrammar: grammar.StartsWith(kw("delete")),
			ParseGrammar: grammar.Sequence(
				kw("delete"),
				ref("FromClauseSegment"),
				optRef("WhereClauseSegment"),
			),
		},
		{
			Name:         "UpdateStatementSegment",
			Type:         "update_statement",
			MatchGrammar: grammar.StartsWith(kw("update")),
			ParseGrammar: grammar.Sequence(
				kw("update"),
				ref("TableReferenceSegment"),
				ref("SetClauseListSegment"),
				optRef("WhereClauseSegment"),
			),
		},
		{
			Name: "SetClauseListSegment",
			Type: "set_clause_list",
			MatchGrammar: grammar.Sequence(
				kw("set"),
				grammar.Indent,
				grammar.Delimited(ref("CommaSegment"), ref("SetClauseSegment")).Until(kw("where")),
				grammar.Dedent,
			),
		},
		{
			Name: "SetClauseSegment",
			Type: "set_clause",
			MatchGrammar: grammar.Sequence(
				ref("ColumnReferenceSegment"),
				ref("EqualsSegment"),
				grammar.OneOf(
					ref("LiteralGrammar"),
					ref("BareFunctionSegment"),
					ref("FunctionSegment"),
					ref("ColumnReferenceSegment"),
					ref("ExpressionSegment"),
					kw("default"),
				),
			),
		},
		{
			Name: "CreateTableStatementSegment",
			Type: "create_table_statement",
			MatchGrammar: grammar.Sequence(
				kw("create"),
				grammar.Opt(kwSeq("or", "replace")),
				kw("table"),
				grammar.Opt(kwSeq("if", "not", "exists")),
				ref("TableReferenceSegment"),
				grammar.OneOf(
					grammar.Sequence(
						grammar.Bracketed(
							grammar.Delimited(ref("CommaSegment"),
								ref("TableConstraintSegment"),
								ref("ColumnDefinitionSegment"),
							),
						),
						grammar.Opt(grammar.Sequence(kw("comment"), ref("QuotedLiteralSegment"))),
					),
					grammar.Sequence(kw("as"), ref("SelectableGrammar")),
					grammar.Sequence(kw("like"), ref("TableReferenceSegment")),
				),
			),
		},
		{
			Name: "ColumnDefinitionSegment",
			Type: "column_definition",
			MatchGrammar: grammar.Sequence(
				ref("SingleIdentifierGrammar"),
				ref("DatatypeSegment"),
				grammar.AnyNumberOf(ref("ColumnOptionSegment")),
			),
		},
		{
			Name: "ColumnOptionSegment",
			Type: "column_constraint",
			MatchGrammar: grammar.Sequence(
				grammar.Opt(grammar.Sequence(kw("constraint"), ref("ObjectReferenceSegment"))),
				grammar.OneOf(
					grammar.Sequence(optKw("not"), kw("null")),
					grammar.Sequence(kw("default"), ref("LiteralGrammar")),
					kwSeq("primary", "key"),
					kw("unique"),
					kw("auto_increment"),
					grammar.Sequence(
						kw("references"),
						ref("ColumnReferenceSegment"),
						optRef("BracketedColumnReferenceListGrammar"),
					),
					grammar.Sequence(kw("comment"), ref("QuotedLiteralSegment")),
				),
			),
		},
		{
			Name: "TableConstraintSegment",
			Type: "table_constraint_definition",
			MatchGrammar: grammar.Sequence(
				grammar.Opt(grammar.Sequence(kw("constraint"), ref("ObjectReferenceSegment"))),
				grammar.OneOf(
					grammar.Sequence(kw("unique"), ref("BracketedColumnReferenceListGrammar")),
					grammar.Sequence(kw("primary"), kw("key"), ref("BracketedColumnReferenceListGrammar")),
					grammar.Sequence(
						kw("foreign"),
						kw("key"),
						ref("BracketedColumnReferenceListGrammar"),
						kw("references"),
						ref("ColumnReferenceSegment"),
						ref("BracketedColumnReferenceListGrammar"),
					),
				),
			),
		},
		{
			Name: "CreateViewStatementSegment",
			Type: "create_view_statement",
			MatchGrammar: grammar.Sequence(
				kw("create"),
				grammar.Opt(kwSeq("or", "replace")),
				kw("view"),
				grammar.Opt(kwSeq("if", "not", "exists")),
				ref("TableReferenceSegment"),
				optRef("BracketedColumnReferenceListGrammar"),
				kw("as"),
				ref("SelectableGrammar"),
			),
		},
		{
			Name: "DropStatementSegment",
			Type: "drop_statement",
			MatchGrammar: grammar.Sequence(
				kw("drop"),
				kwOneOf("table", "view"),
				grammar.Opt(kwSeq("if", "exists")),
				ref("TableReferenceSegment"),
				grammar.Opt(kwOneOf("restrict", "cascade")),
			),
		},
	}
}
