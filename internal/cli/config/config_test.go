package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import dialect packages so Validate can find them
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/postgres"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leaplint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dialect", "", "")
	fs.String("output", "", "")
	fs.CountP("verbose", "v", "")
	fs.StringSlice("disable", nil, "")
	fs.Int("runaway-limit", 0, "")
	fs.Int("jobs", 4, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "ansi", cfg.Dialect)
	assert.Equal(t, "raw", cfg.Templater)
	assert.Equal(t, -1, cfg.Recurse)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 10, cfg.Lint.RunawayLimit)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultHistoryPath), cfg.History.Path)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
dialect: postgres
templater: starlark
template_vars:
  schema: analytics
lint:
  disable: [LT01]
  severity:
    AM02: error
  rules:
    LT02:
      tab_space_size: 2
  runaway_limit: 4
  starlark_rules: [rules]
history:
  enabled: true
  path: state/history.db
`)
	ResetConfig()

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "starlark", cfg.Templater)
	assert.Equal(t, "analytics", cfg.TemplateVars["schema"])
	assert.Equal(t, []string{"LT01"}, cfg.Lint.Disable)
	assert.Equal(t, "error", cfg.Lint.Severity["AM02"])
	assert.EqualValues(t, 2, cfg.Lint.Rules["LT02"]["tab_space_size"])
	assert.Equal(t, 4, cfg.Lint.RunawayLimit)
	assert.Equal(t, []string{filepath.Join(dir, "rules")}, cfg.Lint.StarlarkRules)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(dir, "state", "history.db"), cfg.History.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "dialect: postgres\n")
	nested := filepath.Join(root, "queries")
	require.NoError(t, os.Mkdir(nested, 0o750))
	t.Chdir(nested)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "leaplint.yaml", filepath.Base(GetConfigFileUsed()))
	assert.Equal(t, filepath.Base(root), filepath.Base(cfg.ProjectRoot))
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "dialect: ansi\noutput: text\nlint:\n  runaway_limit: 4\n")

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		wantDialect string
		wantOutput  string
		wantLimit   int
	}{
		{
			name:        "file only",
			wantDialect: "ansi",
			wantOutput:  "text",
			wantLimit:   4,
		},
		{
			name:        "env over file",
			env:         map[string]string{"LEAPLINT_DIALECT": "postgres", "LEAPLINT_LINT__RUNAWAY_LIMIT": "7"},
			wantDialect: "postgres",
			wantOutput:  "text",
			wantLimit:   7,
		},
		{
			name:        "flag over env",
			env:         map[string]string{"LEAPLINT_DIALECT": "postgres", "LEAPLINT_OUTPUT": "yaml"},
			args:        []string{"--dialect", "ansi", "--runaway-limit", "2"},
			wantDialect: "ansi",
			wantOutput:  "yaml",
			wantLimit:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, val := range tt.env {
				t.Setenv(key, val)
			}
			fs := testFlags()
			require.NoError(t, fs.Parse(tt.args))
			ResetConfig()

			cfg, err := LoadConfig(path, fs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, cfg.Dialect)
			assert.Equal(t, tt.wantOutput, cfg.OutputFormat)
			assert.Equal(t, tt.wantLimit, cfg.Lint.RunawayLimit)
		})
	}
}

func TestLoadConfig_UnsetFlagsKeepFileValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "dialect: postgres\n")
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--jobs", "2"}))
	ResetConfig()

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
}

func TestLoadConfig_DisableFlag(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "lint:\n  disable: [CV09]\n")
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--disable", "LT01,LT02"}))
	ResetConfig()

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"LT01", "LT02"}, cfg.Lint.DisabledRules())
}

func TestLoadConfig_VerboseRaisesLogLevel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "dialect: ansi\n")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"-vv"}))
	ResetConfig()
	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)

	explicit := writeConfig(t, t.TempDir(), "log_level: error\n")
	fs = testFlags()
	require.NoError(t, fs.Parse([]string{"-v"}))
	ResetConfig()
	cfg, err = LoadConfig(explicit, fs)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Dialect:      "ansi",
			Templater:    "raw",
			OutputFormat: OutputText,
			LogLevel:     "info",
			Lint:         &LintConfig{RunawayLimit: 10},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "dialect case insensitive", mutate: func(c *Config) { c.Dialect = "ANSI" }},
		{name: "unknown dialect", mutate: func(c *Config) { c.Dialect = "oracle" }, errSubstr: `unknown dialect "oracle"`},
		{name: "unknown templater", mutate: func(c *Config) { c.Templater = "jinja" }, errSubstr: `unknown templater "jinja"`},
		{name: "unknown output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: `unknown output format "xml"`},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: `unknown log level "loud"`},
		{name: "zero runaway limit", mutate: func(c *Config) { c.Lint.RunawayLimit = 0 }, errSubstr: "lint.runaway_limit must be positive"},
		{name: "bad severity", mutate: func(c *Config) { c.Lint.Severity = map[string]string{"LT01": "fatal"} }, errSubstr: "unknown severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Project(t *testing.T) {
	c := &Config{Dialect: "postgres", TemplateVars: map[string]any{"x": 1}}
	p := c.Project()
	assert.Equal(t, "postgres", p.Dialect)
	assert.Equal(t, "raw", p.Templater)
	assert.Equal(t, 1, p.TemplateVars["x"])
	require.NotNil(t, p.Lint)
	assert.Equal(t, 10, p.Lint.RunawayLimit)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	l := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), l)
	assert.Same(t, l, GetLogger(ctx))
}
