// Package output renders command results for terminals, pipes and
// machines.
//
// Output adapts to the environment:
//   - Terminal: styled text with colors
//   - Piped/Scripted: markdown
//   - json / yaml: machine-readable documents
package output

import "strings"

// OutputMode selects how results are rendered.
//
//nolint:revive // stutters, but callers read better as output.OutputMode
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Modes lists the accepted mode names.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeYAML)}
}

// Mode converts a mode name. Empty and unknown names are ModeAuto.
func Mode(name string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(name))); m {
	case ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return m
	case "md":
		return ModeMarkdown
	case "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}

// IsStructured reports whether m produces a machine-readable document.
func (m OutputMode) IsStructured() bool {
	return m == ModeJSON || m == ModeYAML
}
