package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/dialects/postgres"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func TestRegistered(t *testing.T) {
	d, ok := dialect.Get(postgres.Name)
	require.True(t, ok)
	assert.True(t, d.Expanded())
	assert.Contains(t, dialect.List(), postgres.Name)
}

func TestReservedWords(t *testing.T) {
	d, _ := dialect.Get(postgres.Name)
	assert.True(t, d.Sets("reserved_keywords").Has("ILIKE"))
	assert.True(t, d.Sets("reserved_keywords").Has("select"))

	base, _ := dialect.Get(ansi.Name)
	assert.False(t, base.Sets("reserved_keywords").Has("ilike"))
}

func TestOverrides(t *testing.T) {
	d, _ := dialect.Get(postgres.Name)

	_, err := d.Ref(grammar.KeywordName("ilike"))
	require.NoError(t, err)

	m, err := d.Ref("ShorthandCastGrammar")
	require.NoError(t, err)
	_, ok := m.(*grammar.AnyNumberOfGrammar)
	assert.True(t, ok)

	base, _ := dialect.Get(ansi.Name)
	m, err = base.Ref("ShorthandCastGrammar")
	require.NoError(t, err)
	_, ok = m.(*grammar.NothingGrammar)
	assert.True(t, ok)
}

func TestParse(t *testing.T) {
	pg, _ := dialect.Get(postgres.Name)
	base, _ := dialect.Get(ansi.Name)

	tests := []struct {
		name     string
		sql      string
		wantType string
	}{
		{"ilike", "SELECT a FROM t WHERE a ILIKE 'x%'", "where_clause"},
		{"shorthand cast", "SELECT a::int FROM t", "cast_expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.New(pg).Parse(context.Background(), tt.sql, "q.sql")
			require.NoError(t, err)
			assert.Empty(t, parsed.Violations)
			assert.NotEmpty(t, segment.RecursiveCrawl(parsed.Tree, tt.wantType))

			parsed, err = parser.New(base).Parse(context.Background(), tt.sql, "q.sql")
			require.NoError(t, err)
			assert.NotEmpty(t, parsed.Violations)
			assert.Equal(t, tt.sql, parsed.Tree.Raw())
		})
	}
}
