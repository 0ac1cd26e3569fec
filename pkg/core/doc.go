// Package core defines the shared language of the leaplint system.
//
// This package contains:
//   - Lint severities and rule metadata (Severity, RuleInfo)
//   - Run history entities and the Store interface (Run, RunViolation)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
