package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show descriptions in the listing
	Format  string // Output format
}

// RulesOutput is the structured output of the rules listing.
type RulesOutput struct {
	Rules   []RuleEntry `json:"rules" yaml:"rules"`
	Total   int         `json:"total" yaml:"total"`
	Enabled int         `json:"enabled" yaml:"enabled"`
}

// RuleEntry is a rule and whether the configured linter runs it.
type RuleEntry struct {
	core.RuleInfo `yaml:",inline"`
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	DocURL        string `json:"doc_url,omitempty" yaml:"doc_url,omitempty"`
}

func newRuleEntry(rule lint.RuleDef, enabled bool) RuleEntry {
	e := RuleEntry{RuleInfo: rule.Info(), Enabled: enabled}
	if e.Source == lint.SourceBuiltin {
		e.DocURL = lint.DocURL(rule.ID)
	}
	return e
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (layout, capitalisation, ambiguous, aliasing,
convention). Starlark rules configured under lint.starlark_rules are
listed alongside the built-in ones. A rule is enabled when the configured
dialect supports it and the configuration does not disable it.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  leaplint rules

  # Show details for a specific rule
  leaplint rules LT01

  # List rules in the layout group
  leaplint rules --group layout

  # Output as JSON
  leaplint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show rule descriptions")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// collectRules returns the built-in and Starlark rules, sorted by ID, and
// the IDs the configured linter runs.
func collectRules(cmdCtx *CommandContext) ([]lint.RuleDef, map[string]bool, error) {
	active, err := cmdCtx.Engine.Rules()
	if err != nil {
		return nil, nil, err
	}
	enabled := make(map[string]bool, len(active))
	for _, r := range active {
		enabled[r.ID] = true
	}

	// Starlark rules replace built-in rules with the same ID
	byID := make(map[string]lint.RuleDef)
	for _, r := range lint.GetAll() {
		byID[r.ID] = r
	}
	for _, r := range cmdCtx.Engine.ExtraRules() {
		byID[r.ID] = r
	}
	rules := make([]lint.RuleDef, 0, len(byID))
	for _, r := range byID {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, enabled, nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	cmdCtx.WithFormat(cmd, opts.Format)
	r := cmdCtx.Renderer

	rules, enabled, err := collectRules(cmdCtx)
	if err != nil {
		return err
	}

	out := RulesOutput{Rules: []RuleEntry{}}
	for _, rule := range rules {
		if opts.Group != "" && !strings.EqualFold(rule.Group, opts.Group) {
			continue
		}
		out.Rules = append(out.Rules, newRuleEntry(rule, enabled[rule.ID]))
		if enabled[rule.ID] {
			out.Enabled++
		}
	}
	out.Total = len(out.Rules)

	if r.EffectiveMode().IsStructured() {
		return r.Structured(out)
	}
	if out.Total == 0 {
		r.Warning(fmt.Sprintf("no rules in group %q", opts.Group))
		return nil
	}

	header := []string{"ID", "Name", "Group", "Severity", "Fix", "Enabled"}
	if opts.Verbose {
		header = append(header, "Description")
	}
	rows := make([][]string, 0, len(out.Rules))
	for _, e := range out.Rules {
		row := []string{e.ID, e.Name, e.Group, e.DefaultSeverity.String(), yesNo(e.Fixable), yesNo(e.Enabled)}
		if opts.Verbose {
			row = append(row, e.Description)
		}
		rows = append(rows, row)
	}

	r.Header(fmt.Sprintf("Lint Rules (%d of %d enabled for %s)", out.Enabled, out.Total, cmdCtx.Engine.Dialect()))
	r.Table(header, rows)
	r.Println("")
	r.Println(r.Styles().Muted.Render("Use 'leaplint rules <rule-id>' for detailed documentation"))
	return nil
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	cmdCtx.WithFormat(cmd, opts.Format)
	r := cmdCtx.Renderer

	rules, enabled, err := collectRules(cmdCtx)
	if err != nil {
		return err
	}
	var entry *RuleEntry
	for _, rule := range rules {
		if strings.EqualFold(rule.ID, ruleID) {
			e := newRuleEntry(rule, enabled[rule.ID])
			entry = &e
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return r.Structured(entry)
	case output.ModeMarkdown:
		showRuleMarkdown(r, entry)
	default:
		showRuleText(r, entry)
	}
	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *RuleEntry) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Fixable"), yesNo(rule.Fixable))
	r.Printf("  %s: %s\n", styles.Bold.Render("Enabled"), yesNo(rule.Enabled))
	if rule.Source != lint.SourceBuiltin {
		r.Printf("  %s: %s\n", styles.Bold.Render("Source"), rule.Source)
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}

	if len(rule.Dialects) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Dialects"), strings.Join(rule.Dialects, ", "))
	}
	if rule.DocURL != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), rule.DocURL)
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *RuleEntry) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Fixable:** %s\n\n", rule.Group, rule.DefaultSeverity.String(), yesNo(rule.Fixable))
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Code("sql", rule.BadExample)
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Code("sql", rule.GoodExample)
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	if rule.DocURL != "" {
		r.Printf("[Reference](%s)\n", rule.DocURL)
	}
}

// Helper functions

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
