package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"

	// Dialects the helpers look up by name.
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/postgres"
)

// NewLinter returns a linter for the named dialect running only rules.
func NewLinter(t testing.TB, dialectName string, cfg *lint.Config, rules ...lint.RuleDef) *lint.Linter {
	t.Helper()
	d, ok := dialect.Get(dialectName)
	require.True(t, ok, "dialect %s not registered", dialectName)
	p := parser.New(d, parser.WithLogger(NewTestLogger(t)))
	l, err := lint.NewLinter(p, cfg, lint.WithRules(rules...), lint.WithLogger(NewTestLogger(t)))
	require.NoError(t, err)
	return l
}

// LintSQL lints sql in the ANSI dialect with rules.
func LintSQL(t testing.TB, sql string, rules ...lint.RuleDef) []lint.Violation {
	t.Helper()
	res, err := NewLinter(t, "ansi", nil, rules...).LintString(context.Background(), sql, "test.sql")
	require.NoError(t, err)
	return res.Violations
}

// FixSQL fixes sql in the ANSI dialect with rules and returns the text.
func FixSQL(t testing.TB, sql string, rules ...lint.RuleDef) string {
	t.Helper()
	res, err := NewLinter(t, "ansi", nil, rules...).FixString(context.Background(), sql, "test.sql")
	require.NoError(t, err)
	return res.Fixed
}

// Codes returns the rule codes of violations, in order.
func Codes(violations []lint.Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Code
	}
	return out
}

// ByCode returns the violations reported under code.
func ByCode(violations []lint.Violation, code string) []lint.Violation {
	var out []lint.Violation
	for _, v := range violations {
		if v.Code == code {
			out = append(out, v)
		}
	}
	return out
}
