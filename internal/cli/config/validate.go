package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/templater"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := dialect.Get(c.Dialect); !ok {
		return fmt.Errorf("unknown dialect %q (available: %s)", c.Dialect, strings.Join(dialect.List(), ", "))
	}
	if !contains(templater.List(), c.Templater) {
		return fmt.Errorf("unknown templater %q (available: %s)", c.Templater, strings.Join(templater.List(), ", "))
	}
	switch c.OutputFormat {
	case OutputAuto, OutputText, OutputMarkdown, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (expected auto, text, markdown, json or yaml)", c.OutputFormat)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Lint != nil {
		if c.Lint.RunawayLimit <= 0 {
			return fmt.Errorf("lint.runaway_limit must be positive, got %d", c.Lint.RunawayLimit)
		}
		if _, err := c.Lint.ToLintConfig(); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
