package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func ansiParser(t *testing.T) *parser.Parser {
	t.Helper()
	d, ok := dialect.Get("ansi")
	require.True(t, ok)
	return parser.New(d)
}

func parseSQL(t *testing.T, sql string) segment.Segment {
	t.Helper()
	parsed, err := ansiParser(t).Parse(context.Background(), sql, "test.sql")
	require.NoError(t, err)
	require.NotNil(t, parsed.Tree)
	return parsed.Tree
}

// ruleFunc builds a throwaway rule around crawl.
func ruleFunc(id string, crawl CrawlFunc) RuleDef {
	return RuleDef{
		ID:          id,
		Name:        "test." + id,
		Group:       "test",
		Description: "Test rule " + id + ".",
		Severity:    core.SeverityWarning,
		Crawl:       crawl,
	}
}
