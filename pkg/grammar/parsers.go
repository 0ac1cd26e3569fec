package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Raw parsers claim lexed tokens and re-type them: a code token matching
// "SELECT" becomes a keyword, a quoted string becomes a literal, and so
// on. They only ever look at raw segments.

func firstRaw(segs []segment.Segment) (*segment.Raw, bool) {
	if len(segs) == 0 {
		return nil, false
	}
	r, ok := segs[0].(*segment.Raw)
	return r, ok
}

func claimFirst(segs []segment.Segment, r *segment.Raw, attrs segment.Attrs) segment.MatchResult {
	return segment.MatchResult{Matched: []segment.Segment{r.As(attrs)}, Unmatched: segs[1:]}
}

// =============================================================================
// StringParser
// =============================================================================

// StringParser matches a token whose raw text equals Template, ignoring
// case.
type StringParser struct {
	Template string
	Attrs    segment.Attrs
}

// Keyword matches word as a keyword token.
func Keyword(word string) *StringParser {
	return &StringParser{
		Template: strings.ToUpper(word),
		Attrs:    segment.Attrs{Type: segment.TypeKeyword, Name: strings.ToLower(word), IsCode: true},
	}
}

// Symbol matches a literal symbol such as "," and types it typ.
func Symbol(template, typ string) *StringParser {
	return &StringParser{
		Template: strings.ToUpper(template),
		Attrs:    segment.Attrs{Type: typ, IsCode: true},
	}
}

func (p *StringParser) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	r, ok := firstRaw(segs)
	if !ok || !r.IsCode() || strings.ToUpper(r.Raw()) != p.Template {
		return segment.FromUnmatched(segs), nil
	}
	return claimFirst(segs, r, p.Attrs), nil
}

func (p *StringParser) Simple(*segment.ParseContext, []string) ([]string, bool) {
	return []string{p.Template}, true
}

func (p *StringParser) IsOptional() bool { return false }

func (p *StringParser) ExpectedString(segment.Resolver, map[string]bool) string { return p.Template }

func (p *StringParser) String() string { return fmt.Sprintf("String(%s)", p.Template) }

// =============================================================================
// RegexParser
// =============================================================================

// RegexParser matches a token whose whole raw text matches Pattern and
// whose upper-cased raw text does not match AntiPattern.
type RegexParser struct {
	Pattern     *regexp.Regexp
	AntiPattern *regexp.Regexp
	Attrs       segment.Attrs
}

// Regex compiles pattern, anchored at both ends. anti may be empty.
func Regex(pattern, anti string, attrs segment.Attrs) *RegexParser {
	p := &RegexParser{
		Pattern: regexp.MustCompile(`^(?:` + pattern + `)$`),
		Attrs:   attrs,
	}
	if anti != "" {
		p.AntiPattern = regexp.MustCompile(`^(?:` + anti + `)$`)
	}
	return p
}

func (p *RegexParser) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	r, ok := firstRaw(segs)
	if !ok || !r.IsCode() || !p.Pattern.MatchString(r.Raw()) {
		return segment.FromUnmatched(segs), nil
	}
	if p.AntiPattern != nil && p.AntiPattern.MatchString(strings.ToUpper(r.Raw())) {
		return segment.FromUnmatched(segs), nil
	}
	return claimFirst(segs, r, p.Attrs), nil
}

func (p *RegexParser) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (p *RegexParser) IsOptional() bool                                        { return false }

func (p *RegexParser) ExpectedString(segment.Resolver, map[string]bool) string { return p.Attrs.Type }

func (p *RegexParser) String() string { return fmt.Sprintf("Regex(%s)", p.Pattern) }

// =============================================================================
// NamedParser / TypedParser
// =============================================================================

// NamedParser matches a token by the name the lexer gave it.
type NamedParser struct {
	Want  string
	Attrs segment.Attrs
}

// Named matches tokens named name.
func Named(name string, attrs segment.Attrs) *NamedParser {
	return &NamedParser{Want: name, Attrs: attrs}
}

func (p *NamedParser) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	r, ok := firstRaw(segs)
	if !ok || r.Name() != p.Want {
		return segment.FromUnmatched(segs), nil
	}
	return claimFirst(segs, r, p.Attrs), nil
}

func (p *NamedParser) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (p *NamedParser) IsOptional() bool                                        { return false }

func (p *NamedParser) ExpectedString(segment.Resolver, map[string]bool) string {
	return "[" + p.Want + "]"
}

func (p *NamedParser) String() string { return "Named(" + p.Want + ")" }

// TypedParser matches a token by type. With zero Attrs the token is
// claimed unchanged.
type TypedParser struct {
	Want  string
	Attrs segment.Attrs
}

// Typed matches tokens of type typ.
func Typed(typ string, attrs segment.Attrs) *TypedParser {
	return &TypedParser{Want: typ, Attrs: attrs}
}

func (p *TypedParser) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	r, ok := firstRaw(segs)
	if !ok || r.Type() != p.Want {
		return segment.FromUnmatched(segs), nil
	}
	if p.Attrs == (segment.Attrs{}) {
		return segment.MatchResult{Matched: segs[:1:1], Unmatched: segs[1:]}, nil
	}
	return claimFirst(segs, r, p.Attrs), nil
}

func (p *TypedParser) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (p *TypedParser) IsOptional() bool                                        { return false }

func (p *TypedParser) ExpectedString(segment.Resolver, map[string]bool) string {
	return "<" + p.Want + ">"
}

func (p *TypedParser) String() string { return "Typed(" + p.Want + ")" }

// =============================================================================
// LambdaParser
// =============================================================================

// LambdaParser claims the run of leading raw tokens accepted by Func,
// re-typing each.
type LambdaParser struct {
	Label string
	Func  func(segment.Segment) bool
	Attrs segment.Attrs
}

// Lambda matches the run of tokens for which fn holds.
func Lambda(label string, fn func(segment.Segment) bool, attrs segment.Attrs) *LambdaParser {
	return &LambdaParser{Label: label, Func: fn, Attrs: attrs}
}

func (p *LambdaParser) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	var matched []segment.Segment
	for _, s := range segs {
		r, ok := s.(*segment.Raw)
		if !ok || !p.Func(s) {
			break
		}
		matched = append(matched, r.As(p.Attrs))
	}
	if len(matched) == 0 {
		return segment.FromUnmatched(segs), nil
	}
	return segment.MatchResult{Matched: matched, Unmatched: segs[len(matched):]}, nil
}

func (p *LambdaParser) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (p *LambdaParser) IsOptional() bool                                        { return false }

func (p *LambdaParser) ExpectedString(segment.Resolver, map[string]bool) string { return p.Label }

func (p *LambdaParser) String() string { return "Lambda(" + p.Label + ")" }
