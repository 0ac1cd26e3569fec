package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{name: "none", files: nil, want: ""},
		{name: "plain", files: []string{ConfigFileName}, want: ConfigFileName},
		{name: "hidden", files: []string{ConfigFileNameHidden}, want: ConfigFileNameHidden},
		{name: "plain wins", files: []string{ConfigFileNameHidden, ConfigFileName}, want: ConfigFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("dialect: ansi\n"), 0o600))
			}
			got := FindConfigFile(dir)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestFindConfigFile_IgnoresDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ConfigFileName), 0o750))
	assert.Empty(t, FindConfigFile(dir))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("dialect: ansi\n"), 0o600))
	nested := filepath.Join(root, "queries", "reports")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
}

func TestFindProjectRoot_TooDeep(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("dialect: ansi\n"), 0o600))
	deep := root
	for i := 0; i < MaxUpwardSearchLevels; i++ {
		deep = filepath.Join(deep, "d")
	}
	require.NoError(t, os.MkdirAll(deep, 0o750))

	assert.Empty(t, FindProjectRoot(deep))
}

func TestLintConfig_DisabledRules(t *testing.T) {
	c := &LintConfig{Disable: []string{"lt01", "AM02, cv09", " "}}
	assert.Equal(t, []string{"LT01", "AM02", "CV09"}, c.DisabledRules())

	var nilCfg *LintConfig
	assert.Nil(t, nilCfg.DisabledRules())
}

func TestLintConfig_ToLintConfig(t *testing.T) {
	c := &LintConfig{
		Disable:      []string{"LT01"},
		Severity:     map[string]string{"am02": "error"},
		Rules:        map[string]RuleOptions{"lt02": {"tab_space_size": 2}},
		RunawayLimit: 3,
	}

	cfg, err := c.ToLintConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsDisabled("LT01"))
	assert.Equal(t, core.SeverityError, cfg.GetSeverity("AM02", core.SeverityInfo))
	assert.Equal(t, map[string]any{"tab_space_size": 2}, cfg.GetRuleOptions("LT02"))
	assert.Equal(t, 3, cfg.RunawayLimit)
}

func TestLintConfig_ToLintConfig_Defaults(t *testing.T) {
	var c *LintConfig
	cfg, err := c.ToLintConfig()
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultRunawayLimit, cfg.RunawayLimit)
	assert.False(t, cfg.IsDisabled("LT01"))
}

func TestLintConfig_ToLintConfig_BadSeverity(t *testing.T) {
	c := &LintConfig{Severity: map[string]string{"LT01": "fatal"}}
	_, err := c.ToLintConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown severity "fatal"`)
}

func TestApplyDefaults(t *testing.T) {
	c := &ProjectConfig{}
	ApplyDefaults(c)
	assert.Equal(t, DefaultDialect, c.Dialect)
	assert.Equal(t, DefaultTemplater, c.Templater)
	require.NotNil(t, c.Lint)
	assert.Equal(t, lint.DefaultRunawayLimit, c.Lint.RunawayLimit)

	custom := &ProjectConfig{Dialect: "postgres", Lint: &LintConfig{RunawayLimit: 4}}
	ApplyDefaults(custom)
	assert.Equal(t, "postgres", custom.Dialect)
	assert.Equal(t, 4, custom.Lint.RunawayLimit)

	ApplyDefaults(nil)
}
