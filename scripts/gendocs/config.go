package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// generateConfigDocs generates the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "general", "lint", "history", "serve"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "dialect", Type: "string", Default: config.DefaultDialect, Description: "SQL dialect files are parsed with", Category: "general"},
		{Name: "templater", Type: "string", Default: "raw", Description: "Templater applied before lexing: raw or starlark", Category: "general"},
		{Name: "template_vars", Type: "map[string]any", Description: "Variables visible to `{{ expr }}` tags of the starlark templater", Category: "general"},
		{Name: "recurse", Type: "int", Default: "-1", Description: "Parse expansion depth, -1 for unlimited", Category: "general"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json, yaml", Category: "general"},
		{Name: "log_level", Type: "string", Description: "debug, info, warn or error; follows --verbose when unset", Category: "general"},
		{Name: "no_color", Type: "bool", Default: "false", Description: "Disable colored output", Category: "general"},

		{Name: "lint.disable", Type: "[]string", Description: "Rule IDs that never run", Category: "lint"},
		{Name: "lint.severity", Type: "map[string]string", Description: "Severity override per rule ID", Category: "lint"},
		{Name: "lint.rules", Type: "map[string]map", Description: "Options per rule ID", Category: "lint"},
		{Name: "lint.runaway_limit", Type: "int", Default: strconv.Itoa(lint.DefaultRunawayLimit), Description: "Maximum fix loop iterations per file", Category: "lint"},
		{Name: "lint.starlark_rules", Type: "[]string", Description: "Starlark rule files or directories of them", Category: "lint"},

		{Name: "history.enabled", Type: "bool", Default: "false", Description: "Record lint and fix runs", Category: "history"},
		{Name: "history.path", Type: "string", Default: config.DefaultHistoryPath, Description: "SQLite database of the run history", Category: "history"},

		{Name: "serve.addr", Type: "string", Default: config.DefaultServeAddr, Description: "Listen address of `leaplint serve`", Category: "serve"},
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "leaplint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leaplint reads `leaplint.yaml` from the working directory or the nearest parent that has one. " +
		"Relative paths in the file are resolved against its directory.")

	sections := []struct {
		category string
		title    string
		intro    string
	}{
		{"general", "General Settings", "Top-level keys:"},
		{"lint", "Lint Settings", "Rule selection and fix behaviour, under the `lint` key:"},
		{"history", "Run History", "Runs recorded by `lint --history` and `fix --history`:"},
		{"serve", "HTTP Server", "Settings of `leaplint serve`:"},
	}

	fields := getConfigSchema()
	headers := []string{"Field", "Type", "Default", "Description"}
	for _, sec := range sections {
		w.Header(2, sec.title)
		w.Paragraph(sec.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
		}
		w.Table(headers, rows)
	}

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# leaplint.yaml
dialect: postgres
templater: starlark
template_vars:
  schema: analytics

lint:
  disable: [AM11]
  severity:
    LT01: error
  rules:
    CP01:
      capitalisation_policy: upper
    AL06:
      min_alias_length: 2
  runaway_limit: 10
  starlark_rules:
    - rules/

history:
  enabled: true

serve:
  addr: 127.0.0.1:8765`)

	w.Header(2, "Ignoring Files")
	w.Paragraph("`.leaplintignore` in the project root lists one glob per line, matched against slash-separated paths relative to the root. " +
		"Blank lines and lines starting with `#` are skipped.")
	w.CodeBlock("text", `# generated models
build/*
vendor/*`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
