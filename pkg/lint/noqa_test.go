package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoqa(t *testing.T) {
	tests := []struct {
		comment string
		rules   []string
		ok      bool
		wantErr bool
	}{
		{comment: "-- noqa", ok: true},
		{comment: "--noqa", ok: true},
		{comment: "# noqa", ok: true},
		{comment: "/* noqa */", ok: true},
		{comment: "-- NOQA", ok: true},
		{comment: "-- noqa: LT01", rules: []string{"LT01"}, ok: true},
		{comment: "-- noqa: lt01, cp01", rules: []string{"LT01", "CP01"}, ok: true},
		{comment: "-- noqa:AM04,custom/no_drop", rules: []string{"AM04", "CUSTOM/NO_DROP"}, ok: true},
		{comment: "-- just a comment"},
		{comment: "-- noqa:", ok: true, wantErr: true},
		{comment: "-- noqa LT01", ok: true, wantErr: true},
		{comment: "-- noqa: not a rule", ok: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			rules, ok, err := parseNoqa(tt.comment)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rules, rules)
		})
	}
}

func TestNoqaDirective_Suppresses(t *testing.T) {
	all := noqaDirective{Line: 1}
	assert.True(t, all.suppresses("LT01"))
	assert.True(t, all.suppresses("AM04"))

	some := noqaDirective{Line: 1, Rules: []string{"LT01"}}
	assert.True(t, some.suppresses("LT01"))
	assert.True(t, some.suppresses("lt01"))
	assert.False(t, some.suppresses("LT02"))
}

func TestCollectNoqa(t *testing.T) {
	tree := parseSQL(t, "SELECT a -- noqa: LT01\nFROM t -- noqa: ???\n")

	directives, problems := collectNoqa(tree)
	require.Contains(t, directives, 1)
	assert.Equal(t, []string{"LT01"}, directives[1].Rules)
	assert.NotContains(t, directives, 2)

	require.Len(t, problems, 1)
	assert.Equal(t, CodeParse, problems[0].Code)
	assert.Equal(t, 2, problems[0].Line)
}

func TestFilterNoqa(t *testing.T) {
	vs := []Violation{
		{Code: "LT01", Pos: posAt(1)},
		{Code: "LT02", Pos: posAt(1)},
		{Code: "LT01", Pos: posAt(2)},
	}
	directives := map[int]noqaDirective{1: {Line: 1, Rules: []string{"LT01"}}}

	got := filterNoqa(vs, directives)
	require.Len(t, got, 2)
	assert.Equal(t, "LT02", got[0].Code)
	assert.Equal(t, 2, got[1].Pos.Line)
	assert.Len(t, vs, 3, "input is not modified")
}
