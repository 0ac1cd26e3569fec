package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TupleOptions controls ToTuple and AsRecord.
type TupleOptions struct {
	ShowRaw  bool // leaves carry their raw text
	CodeOnly bool // drop non-code children
}

// Tuple is a plain (type, children) view of a tree. Metas are dropped.
type Tuple struct {
	Type     string
	Raw      string
	Leaf     bool
	Children []Tuple
}

// ToTuple converts s into a Tuple.
func ToTuple(s Segment, opts TupleOptions) Tuple {
	kids := s.Segments()
	if len(kids) == 0 {
		t := Tuple{Type: s.Type(), Leaf: true}
		if opts.ShowRaw {
			t.Raw = s.Raw()
		}
		return t
	}
	t := Tuple{Type: s.Type()}
	for _, c := range kids {
		if c.IsMeta() || (opts.CodeOnly && !c.IsCode()) {
			continue
		}
		t.Children = append(t.Children, ToTuple(c, opts))
	}
	return t
}

// =============================================================================
// Record
// =============================================================================

// Record is the structurally simplified form of a tree used for YAML and
// JSON output. A record renders as a single-key mapping from its type to
// its value: the raw text for leaves, a mapping when the children's types
// are unique, a list of records otherwise, and null when it has no
// children left.
type Record struct {
	Type   string
	Raw    string
	Leaf   bool
	Fields []Record
	Items  []Record
}

// AsRecord simplifies s into a Record.
func AsRecord(s Segment, opts TupleOptions) Record {
	opts.ShowRaw = true
	return simplify(ToTuple(s, opts))
}

func simplify(t Tuple) Record {
	r := Record{Type: t.Type, Raw: t.Raw, Leaf: t.Leaf}
	if t.Leaf || len(t.Children) == 0 {
		return r
	}
	seen := make(map[string]bool, len(t.Children))
	unique := true
	for _, c := range t.Children {
		if seen[c.Type] {
			unique = false
			break
		}
		seen[c.Type] = true
	}
	for _, c := range t.Children {
		if unique {
			r.Fields = append(r.Fields, simplify(c))
		} else {
			r.Items = append(r.Items, simplify(c))
		}
	}
	return r
}

// MarshalYAML keeps children in source order.
func (r Record) MarshalYAML() (any, error) {
	return r.node(), nil
}

func (r Record) node() *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{yamlString(r.Type), r.valueNode()},
	}
}

func (r Record) valueNode() *yaml.Node {
	switch {
	case r.Leaf:
		return yamlString(r.Raw)
	case len(r.Fields) > 0:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range r.Fields {
			n.Content = append(n.Content, yamlString(f.Type), f.valueNode())
		}
		return n
	case len(r.Items) > 0:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range r.Items {
			n.Content = append(n.Content, it.node())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// MarshalJSON keeps children in source order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r Record) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	if err := writeJSONString(buf, r.Type); err != nil {
		return err
	}
	buf.WriteByte(':')
	if err := r.writeJSONValue(buf); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func (r Record) writeJSONValue(buf *bytes.Buffer) error {
	switch {
	case r.Leaf:
		return writeJSONString(buf, r.Raw)
	case len(r.Fields) > 0:
		buf.WriteByte('{')
		for i, f := range r.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, f.Type); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.writeJSONValue(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case len(r.Items) > 0:
		buf.WriteByte('[')
		for i, it := range r.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// =============================================================================
// Stringify
// =============================================================================

// Stringify renders s as an indented tree, one segment per line, with
// positions on the left and raw text on the right of each leaf.
func Stringify(s Segment, codeOnly bool) string {
	var sb strings.Builder
	stringify(&sb, s, 0, codeOnly)
	return sb.String()
}

func stringify(sb *strings.Builder, s Segment, depth int, codeOnly bool) {
	pos := s.Pos()
	label := strings.Repeat("    ", depth)
	if s.IsMeta() {
		label += "[META] "
	}
	label += s.Type() + ":"
	line := fmt.Sprintf("[L:%3d, P:%3d]      |%s", pos.Line, pos.Column, label)
	if len(s.Segments()) == 0 && !s.IsMeta() {
		line = fmt.Sprintf("%-64s%s", line, quoteRaw(s.Raw()))
	}
	if b, ok := s.(*Base); ok && b.expected != "" {
		line += "  ! expected: " + b.expected
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	for _, c := range s.Segments() {
		if codeOnly && !c.IsCode() && !c.IsMeta() {
			continue
		}
		stringify(sb, c, depth+1, codeOnly)
	}
}

func quoteRaw(raw string) string {
	return strconv.Quote(raw)
}
