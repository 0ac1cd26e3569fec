// Package lint provides the rule framework that runs over parse trees.
//
// # Architecture
//
// The lint package follows a modular architecture with three layers:
//
//  1. Root package (pkg/lint/): rule definitions, the registry, the crawler and the Linter
//  2. Built-in rules (pkg/lint/rules/...): one subpackage per rule group
//  3. Starlark rules (pkg/lint/starlarkrule/): rules loaded from .star files at runtime
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
//
// # Rule Categories
//
//   - LT (Layout): whitespace, indentation and line endings
//   - CP (Capitalisation): keyword casing
//   - AM (Ambiguous): constructs whose result is easy to misread
//   - CV (Convention): house style choices
//
// # Crawling
//
// A rule is a CrawlFunc called once for every segment of the tree, parents
// before children. It sees the segment, its ancestors and siblings, the
// leaves around it and the memory it returned earlier in the same crawl:
//
//	func crawlTrailing(ctx *lint.RuleContext) *lint.Result {
//		if !ctx.Segment.IsType(segment.TypeWhitespace) {
//			return nil
//		}
//		next := ctx.NextRaw()
//		if next != nil && !next.IsType(segment.TypeNewline) {
//			return nil
//		}
//		return &lint.Result{Anchor: ctx.Segment, Fixes: []segment.Fix{segment.NewDelete(ctx.Segment)}}
//	}
//
// # Configuration
//
// Use Config to control which rules are enabled, their severity and options:
//
//	config := lint.NewConfig()
//	config.Disable("AM01")
//	config.SetSeverity("LT01", core.SeverityError)
//	config.SetRuleOptions("CP01", map[string]any{"capitalisation_policy": "upper"})
//
// # Suppression
//
// A comment "-- noqa" silences every violation on its line and
// "-- noqa: LT01,CP01" the listed rules only.
package lint
