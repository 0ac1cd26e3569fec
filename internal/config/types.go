// Package config provides the project configuration shared by the CLI
// commands and the HTTP server: the settings that decide how a file is
// templated, parsed and linted.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disable contains rule IDs to skip. Entries may hold several IDs
	// separated by commas, as they do when set from the environment.
	Disable []string `koanf:"disable"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`

	// RunawayLimit bounds the fix loop per file
	RunawayLimit int `koanf:"runaway_limit"`

	// StarlarkRules lists .star files or directories of them
	StarlarkRules []string `koanf:"starlark_rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// ProjectConfig holds what a parse or lint of one file depends on.
type ProjectConfig struct {
	Dialect      string         `koanf:"dialect"`
	Templater    string         `koanf:"templater"`
	TemplateVars map[string]any `koanf:"template_vars"`
	Lint         *LintConfig    `koanf:"lint"`
}

// DisabledRules returns the upper-cased IDs of Disable.
func (c *LintConfig) DisabledRules() []string {
	if c == nil {
		return nil
	}
	var ids []string
	for _, entry := range c.Disable {
		for _, id := range strings.Split(entry, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, strings.ToUpper(id))
			}
		}
	}
	return ids
}

// ToLintConfig converts the configuration into a lint.Config. Rule IDs are
// matched case-insensitively.
func (c *LintConfig) ToLintConfig() (*lint.Config, error) {
	cfg := lint.NewConfig()
	if c == nil {
		return cfg, nil
	}
	for _, id := range c.DisabledRules() {
		cfg.Disable(id)
	}
	for id, name := range c.Severity {
		sev, ok := core.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("lint.severity.%s: unknown severity %q", id, name)
		}
		cfg.SetSeverity(strings.ToUpper(id), sev)
	}
	for id, opts := range c.Rules {
		cfg.SetRuleOptions(strings.ToUpper(id), opts)
	}
	if c.RunawayLimit > 0 {
		cfg.RunawayLimit = c.RunawayLimit
	}
	return cfg, nil
}
