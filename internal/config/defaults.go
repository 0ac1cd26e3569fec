package config

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/templater"
)

// Default configuration values.
const (
	DefaultDialect     = dialect.DefaultName
	DefaultTemplater   = templater.RawName
	DefaultRecurse     = segment.RecurseUnlimited
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultHistoryPath = ".leaplint/history.db"
	DefaultServeAddr   = "127.0.0.1:8765"
)

// Defaults returns the lowest configuration layer as a flat key map. The
// log level is left out: without one it follows the verbosity.
func Defaults() map[string]any {
	return map[string]any{
		"dialect":            DefaultDialect,
		"templater":          DefaultTemplater,
		"recurse":            DefaultRecurse,
		"verbose":            0,
		"output":             DefaultOutput,
		"no_color":           false,
		"lint.runaway_limit": lint.DefaultRunawayLimit,
		"history.enabled":    false,
		"history.path":       DefaultHistoryPath,
		"serve.addr":         DefaultServeAddr,
	}
}

// ApplyDefaults fills the unset fields of a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.Templater == "" {
		c.Templater = DefaultTemplater
	}
	if c.Lint == nil {
		c.Lint = &LintConfig{}
	}
	if c.Lint.RunawayLimit == 0 {
		c.Lint.RunawayLimit = lint.DefaultRunawayLimit
	}
}
