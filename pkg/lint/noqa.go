package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// CodeParse is the code of violations raised before or outside rules:
// unparsable SQL and malformed noqa directives.
const CodeParse = "PRS"

// Common error messages
const (
	ErrNoqaMalformed = "Malformed 'noqa' section: expected 'noqa' or 'noqa: <rule>[,...]', found %q"
	ErrNoqaEmpty     = "Malformed 'noqa' section: no rules listed after ':'"
)

var ruleCodePattern = regexp.MustCompile(`^[A-Za-z]{2,3}[0-9]{2}$|^[A-Za-z0-9_]+/[A-Za-z0-9_-]+$`)

// noqaDirective suppresses violations on one line. A nil Rules slice
// suppresses every rule.
type noqaDirective struct {
	Line  int
	Rules []string
}

func (d noqaDirective) suppresses(code string) bool {
	if d.Rules == nil {
		return true
	}
	for _, r := range d.Rules {
		if strings.EqualFold(r, code) {
			return true
		}
	}
	return false
}

// parseNoqa reads the directive in a comment. ok is false when the
// comment is not a noqa comment at all.
func parseNoqa(comment string) (rules []string, ok bool, err error) {
	body := strings.TrimSpace(comment)
	switch {
	case strings.HasPrefix(body, "--"):
		body = body[2:]
	case strings.HasPrefix(body, "#"):
		body = body[1:]
	case strings.HasPrefix(body, "/*") && strings.HasSuffix(body, "*/"):
		body = body[2 : len(body)-2]
	default:
		return nil, false, nil
	}
	body = strings.TrimSpace(body)
	if len(body) < 4 || !strings.EqualFold(body[:4], "noqa") {
		return nil, false, nil
	}

	rest := strings.TrimSpace(body[4:])
	if rest == "" {
		return nil, true, nil
	}
	if !strings.HasPrefix(rest, ":") {
		return nil, true, fmt.Errorf(ErrNoqaMalformed, body)
	}
	list := strings.TrimSpace(rest[1:])
	if list == "" {
		return nil, true, fmt.Errorf("%s", ErrNoqaEmpty)
	}
	for _, r := range strings.Split(list, ",") {
		r = strings.TrimSpace(r)
		if !ruleCodePattern.MatchString(r) {
			return nil, true, fmt.Errorf(ErrNoqaMalformed, body)
		}
		rules = append(rules, strings.ToUpper(r))
	}
	return rules, true, nil
}

// collectNoqa returns the directives found in the comments of tree,
// keyed by line, and a PRS violation for each malformed one.
func collectNoqa(tree segment.Segment) (map[int]noqaDirective, []Violation) {
	directives := make(map[int]noqaDirective)
	var problems []Violation
	for _, s := range leaves(tree) {
		if !s.IsComment() {
			continue
		}
		rules, ok, err := parseNoqa(s.Raw())
		if !ok {
			continue
		}
		if err != nil {
			problems = append(problems, NewViolation(CodeParse, err.Error(), s.Pos(), core.SeverityError))
			continue
		}
		directives[s.Pos().Line] = noqaDirective{Line: s.Pos().Line, Rules: rules}
	}
	return directives, problems
}

// filterNoqa drops the violations suppressed by a directive on their line.
func filterNoqa(violations []Violation, directives map[int]noqaDirective) []Violation {
	if len(directives) == 0 {
		return violations
	}
	out := violations[:0:0]
	for _, v := range violations {
		if d, ok := directives[v.Pos.Line]; ok && d.suppresses(v.Code) {
			continue
		}
		out = append(out, v)
	}
	return out
}
