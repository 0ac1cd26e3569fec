package templater

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// chunkKind identifies a piece of a template.
type chunkKind int

const (
	chunkText chunkKind = iota // literal SQL
	chunkExpr                  // content of {{ ... }}
)

type chunk struct {
	kind  chunkKind
	value string
	pos   token.Position
}

// scan splits input into literal text and {{ expr }} tags. Braces nested
// inside an expression (dict literals) do not close it.
func scan(input string) ([]chunk, *TemplateError) {
	var chunks []chunk
	pos := token.Start()
	rest := input
	for rest != "" {
		open := strings.Index(rest, "{{")
		if open < 0 {
			chunks = append(chunks, chunk{kind: chunkText, value: rest, pos: pos})
			break
		}
		if open > 0 {
			chunks = append(chunks, chunk{kind: chunkText, value: rest[:open], pos: pos})
			pos = pos.AdvanceBy(rest[:open], 0)
			rest = rest[open:]
		}

		end := closingTag(rest)
		if end < 0 {
			return nil, &TemplateError{Pos: pos, Message: ErrUnclosedTag}
		}
		expr := strings.TrimSpace(rest[2:end])
		if expr == "" {
			return nil, &TemplateError{Pos: pos, Message: ErrEmptyTag}
		}
		chunks = append(chunks, chunk{kind: chunkExpr, value: expr, pos: pos})
		tag := rest[:end+2]
		pos = pos.AdvanceBy(tag, 0)
		rest = rest[len(tag):]
	}
	return chunks, nil
}

// closingTag returns the offset of the "}}" closing the tag at the start
// of s, or -1.
func closingTag(s string) int {
	depth := 0
	for i := 2; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
				continue
			}
			if i+1 < len(s) && s[i+1] == '}' {
				return i
			}
		}
	}
	return -1
}
