package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules" // register built-in rules
)

// groupOrder is the order rule groups appear in; layout rules first.
var groupOrder = []string{"layout", "capitalisation", "ambiguous", "convention", "aliasing"}

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"layout":         "Rules about whitespace, indentation and line endings. Most of them fix themselves.",
	"capitalisation": "Rules about the case of keywords.",
	"ambiguous":      "Rules about ambiguous SQL constructs that may cause confusion or errors.",
	"convention":     "Rules about SQL coding conventions and style consistency.",
	"aliasing":       "Rules about alias usage and naming conventions.",
}

// groupPrefixes maps a group to the prefix of its rule IDs.
var groupPrefixes = map[string]string{
	"layout":         "LT",
	"capitalisation": "CP",
	"ambiguous":      "AM",
	"convention":     "CV",
	"aliasing":       "AL",
}

// generateLintDocs generates all lint documentation files.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := make([]core.RuleInfo, 0, lint.Count())
	for _, r := range lint.GetAll() {
		rules = append(rules, r.Info())
	}

	if err := generateLintIndex(outDir, len(rules)); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	if err := generateRulesPage(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")

	return nil
}

// generateLintIndex generates the main linting overview page.
func generateLintIndex(outDir string, count int) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Linting", "SQL lint rules for leaplint")
	w.GeneratedMarker()

	w.Header(1, "Linting")
	w.Paragraph(fmt.Sprintf("leaplint ships **%d rules**. Rules marked fixable are rewritten by `leaplint fix`.", count))

	w.Header(2, "Violations Outside Rules")
	w.Table(
		[]string{"Code", "Description"},
		[][]string{
			{InlineCode("TMP"), "The templater could not render the file"},
			{InlineCode("LXR"), "Text no lexer matcher accepts"},
			{InlineCode("PRS"), "Text the dialect grammar cannot parse, or a malformed noqa directive"},
		},
	)

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `leaplint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disable: [AM11]          # never run
  severity:
    LT01: error            # override severity
  rules:
    AL06:
      max_alias_length: 30 # rule-specific option`)

	w.Paragraph("A `-- noqa` comment suppresses every violation on its line; `-- noqa: LT01,LT05` only the listed rules.")

	w.Header(2, "Rule Categories")
	rows := make([][]string, 0, len(groupOrder))
	for _, group := range groupOrder {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/linting/rules#%s)", capitalizeFirst(group), group),
			groupPrefixes[group],
			groupDescriptions[group],
		})
	}
	w.Table([]string{"Category", "Prefix", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulesPage generates the rule reference page.
func generateRulesPage(outDir string, rules []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Rule reference for leaplint")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")

	grouped := groupRulesByGroup(rules)
	w.Paragraph(fmt.Sprintf("leaplint includes %d lint rules organized into %d categories.", len(rules), len(grouped)))

	for _, group := range groupOrder {
		groupRules, ok := grouped[group]
		if !ok || len(groupRules) == 0 {
			continue
		}

		// Write group header with anchor
		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeFirst(group), group))
		w.Newline()

		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		for _, rule := range groupRules {
			writeRuleDoc(w, rule)
		}
	}

	return os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600)
}

// groupRulesByGroup organizes rules by their Group field.
func groupRulesByGroup(rules []core.RuleInfo) map[string][]core.RuleInfo {
	grouped := make(map[string][]core.RuleInfo)
	for _, r := range rules {
		grouped[r.Group] = append(grouped[r.Group], r)
	}
	// Sort rules within each group by ID
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID < grouped[group][j].ID
		})
	}
	return grouped
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule core.RuleInfo) {
	// Rule header with anchor: ### LT01 - layout.trailing_whitespace {#LT01}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID, rule.Name, rule.ID))
	w.Newline()

	fixable := "no"
	if rule.Fixable {
		fixable = "yes"
	}
	w.Line(fmt.Sprintf("**Severity:** %s | **Fixable:** %s", InlineCode(rule.DefaultSeverity.String()), fixable))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rule.Rationale))
	}

	if rule.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("sql", rule.BadExample)
	}

	if rule.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("sql", rule.GoodExample)
	}

	if rule.Fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(rule.Fix))
	}

	if len(rule.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(rule.ConfigKeys, ", "))))
	}

	if len(rule.Dialects) > 0 {
		w.Line(fmt.Sprintf("**Dialects:** %s", strings.Join(rule.Dialects, ", ")))
		w.Newline()
	}

	// Horizontal rule between rules for readability
	w.Line("---")
	w.Newline()
}
