package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

type testOptions struct {
	Size  int      `mapstructure:"size"`
	Words []string `mapstructure:"words"`
	Style string   `mapstructure:"style"`
}

func defaultTestOptions() any {
	return &testOptions{Size: 4, Words: []string{"a", "b", "c"}, Style: "consistent"}
}

func TestDecodeOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    map[string]any
		want    testOptions
		wantErr bool
	}{
		{name: "defaults", want: testOptions{Size: 4, Words: []string{"a", "b", "c"}, Style: "consistent"}},
		{name: "typed", opts: map[string]any{"size": 2}, want: testOptions{Size: 2, Words: []string{"a", "b", "c"}, Style: "consistent"}},
		{name: "weak number", opts: map[string]any{"size": "8"}, want: testOptions{Size: 8, Words: []string{"a", "b", "c"}, Style: "consistent"}},
		{name: "list replaces default", opts: map[string]any{"words": []any{"x"}}, want: testOptions{Size: 4, Words: []string{"x"}, Style: "consistent"}},
		{name: "single value list", opts: map[string]any{"words": "x"}, want: testOptions{Size: 4, Words: []string{"x"}, Style: "consistent"}},
		{name: "unknown key", opts: map[string]any{"colour": "red"}, wantErr: true},
		{name: "bad type", opts: map[string]any{"size": "big"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := defaultTestOptions().(*testOptions)
			err := DecodeOptions(tt.opts, target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *target)
		})
	}
}

func TestOptionsFor(t *testing.T) {
	withOptions := ruleFunc("TS01", nil)
	withOptions.Options = defaultTestOptions
	without := ruleFunc("TS02", nil)

	cfg := NewConfig().SetRuleOptions("TS01", map[string]any{"size": 2})
	got, err := OptionsFor(withOptions, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*testOptions).Size)

	got, err = OptionsFor(without, cfg)
	require.NoError(t, err)
	assert.Nil(t, got)

	cfg.SetRuleOptions("TS02", map[string]any{"size": 2})
	_, err = OptionsFor(without, cfg)
	assert.ErrorContains(t, err, "TS02 takes no options")

	cfg.SetRuleOptions("TS01", map[string]any{"nope": 1})
	_, err = OptionsFor(withOptions, cfg)
	assert.ErrorContains(t, err, "rule TS01")
}

func posAt(line int) token.Position {
	return token.Position{StatementIndex: 1, Line: line, Column: 1}
}
