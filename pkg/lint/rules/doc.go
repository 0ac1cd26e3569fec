// Package rules imports every built-in rule group so that their init
// functions register them with the lint registry.
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
package rules
