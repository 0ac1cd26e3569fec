// Package config provides configuration management for the leaplint CLI.
//
// This package extends the shared project configuration from
// internal/config with CLI-specific fields: output, logging, run history
// and the HTTP server. The shared types are re-exported here via type
// aliases for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/leaplint/internal/config"
)

// LintConfig is an alias for the shared lint configuration.
// This allows CLI code to use config.LintConfig without importing internal/config.
type LintConfig = sharedcfg.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = sharedcfg.RuleOptions

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// HistoryConfig holds configuration for the run history store.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string         `koanf:"dialect"`
	Templater    string         `koanf:"templater"`
	TemplateVars map[string]any `koanf:"template_vars"`
	Recurse      int            `koanf:"recurse"`
	Verbose      int            `koanf:"verbose"`
	LogLevel     string         `koanf:"log_level"`
	OutputFormat string         `koanf:"output"`
	NoColor      bool           `koanf:"no_color"`
	Lint         *LintConfig    `koanf:"lint"`
	History      *HistoryConfig `koanf:"history"`
	Serve        *ServeConfig   `koanf:"serve"`

	// ProjectRoot is the directory relative paths are resolved against:
	// the config file's directory, or the working directory without one.
	ProjectRoot string `koanf:"-"`
}

// Project returns the part of the configuration a parse or lint depends on.
func (c *Config) Project() *ProjectConfig {
	p := &ProjectConfig{
		Dialect:      c.Dialect,
		Templater:    c.Templater,
		TemplateVars: c.TemplateVars,
		Lint:         c.Lint,
	}
	sharedcfg.ApplyDefaults(p)
	return p
}

// Output modes accepted by --output.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
)

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultDialect     = sharedcfg.DefaultDialect
	DefaultOutput      = sharedcfg.DefaultOutput
	DefaultHistoryPath = sharedcfg.DefaultHistoryPath
	DefaultServeAddr   = sharedcfg.DefaultServeAddr
)
