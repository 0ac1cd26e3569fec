// Package starlarkrule loads lint rules written in Starlark.
//
// A rule file defines a code, a description and a check function:
//
//	code = "custom/no_drop"
//	description = "DROP is not allowed."
//	types = ["keyword"]          # optional: only check these segment types
//	severity = "error"           # optional, default "warning"
//
//	def check(segment, options):
//	    if segment.raw.upper() == "DROP":
//	        return "Found DROP."
//	    return None
//
// check is called for every segment of the tree, or only those whose type
// is listed in types. It receives a struct with the fields type, name,
// raw, line, col, is_code, is_comment and is_leaf, and, when it declares a
// second parameter, the rule's options as a dict. It returns None, a
// message, or a list of messages; several messages are joined with "; ".
package starlarkrule

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/templater"
)

// Extension is the file extension of rule files.
const Extension = ".star"

// Group is the rule group of every Starlark rule.
const Group = "custom"

// Error message formats.
const (
	ErrMissingGlobal = "%s: missing %q"
	ErrGlobalType    = "%s: %q must be a %s, got %s"
	ErrCheckFailed   = "rule %s failed: %v"
)

// rule is a loaded rule file. Its globals are frozen, so check may be
// called from several threads at once.
type rule struct {
	code  string
	path  string
	check *starlark.Function
	types []string
	pool  *threadPool
}

// Load reads and executes a rule file.
func Load(path string) (lint.RuleDef, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return lint.RuleDef{}, fmt.Errorf("reading rule %s: %w", path, err)
	}
	return LoadSource(path, src)
}

// LoadSource executes src as the rule file at path.
func LoadSource(path string, src []byte) (lint.RuleDef, error) {
	thread := &starlark.Thread{Name: path, Print: func(*starlark.Thread, string) {}}
	predeclared := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, src, predeclared)
	if err != nil {
		return lint.RuleDef{}, fmt.Errorf("loading rule %s: %w", path, err)
	}
	globals.Freeze()

	code, err := stringGlobal(globals, path, "code", true)
	if err != nil {
		return lint.RuleDef{}, err
	}
	description, err := stringGlobal(globals, path, "description", true)
	if err != nil {
		return lint.RuleDef{}, err
	}
	level, err := stringGlobal(globals, path, "severity", false)
	if err != nil {
		return lint.RuleDef{}, err
	}
	severity := core.SeverityWarning
	if level != "" {
		if err = severity.UnmarshalText([]byte(level)); err != nil {
			return lint.RuleDef{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	check, ok := globals["check"].(*starlark.Function)
	if !ok {
		if globals["check"] == nil {
			return lint.RuleDef{}, fmt.Errorf(ErrMissingGlobal, path, "check")
		}
		return lint.RuleDef{}, fmt.Errorf(ErrGlobalType, path, "check", "function", globals["check"].Type())
	}
	if n := check.NumParams(); n < 1 || n > 2 {
		return lint.RuleDef{}, fmt.Errorf("%s: check must take (segment) or (segment, options), takes %d parameters", path, n)
	}

	r := &rule{code: code, path: path, check: check, pool: newThreadPool(0)}
	if r.types, err = stringListGlobal(globals, path, "types"); err != nil {
		return lint.RuleDef{}, err
	}

	name := strings.TrimSuffix(filepath.Base(path), Extension)
	return lint.RuleDef{
		ID:          code,
		Name:        Group + "." + name,
		Group:       Group,
		Description: description,
		Severity:    severity,
		Crawl:       r.crawl,
		Options:     func() any { return &map[string]any{} },
		Source:      path,
	}, nil
}

// LoadAll loads the rule files at paths. A directory contributes every
// rule file directly inside it, in name order.
func LoadAll(paths []string) ([]lint.RuleDef, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("starlark rules: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*"+Extension))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	rules := make([]lint.RuleDef, 0, len(files))
	seen := make(map[string]string)
	for _, f := range files {
		def, err := Load(f)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[def.ID]; dup {
			return nil, fmt.Errorf("starlark rule %s defined in both %s and %s", def.ID, prev, f)
		}
		seen[def.ID] = f
		rules = append(rules, def)
	}
	return rules, nil
}

// failed is the memory of a crawl whose check raised an error. The error
// is reported once, then the rule stays quiet for the file.
type failed struct{}

func (r *rule) crawl(ctx *lint.RuleContext) *lint.Result {
	if _, ok := ctx.Memory.(failed); ok {
		return nil
	}
	s := ctx.Segment
	if len(r.types) > 0 && !s.IsType(r.types...) {
		return nil
	}

	args := starlark.Tuple{segmentValue(s)}
	if r.check.NumParams() == 2 {
		opts, err := optionsValue(ctx.Options)
		if err != nil {
			return &lint.Result{Anchor: s, Memory: failed{}, Description: fmt.Sprintf(ErrCheckFailed, r.code, err)}
		}
		args = append(args, opts)
	}

	thread := r.pool.get(r.path)
	defer r.pool.put(thread)
	v, err := starlark.Call(thread, r.check, args, nil)
	if err != nil {
		return &lint.Result{Anchor: s, Memory: failed{}, Description: fmt.Sprintf(ErrCheckFailed, r.code, err)}
	}

	messages, err := messagesOf(v)
	if err != nil {
		return &lint.Result{Anchor: s, Memory: failed{}, Description: fmt.Sprintf(ErrCheckFailed, r.code, err)}
	}
	if len(messages) == 0 {
		return nil
	}
	return &lint.Result{Anchor: s, Description: strings.Join(messages, "; ")}
}

func segmentValue(s segment.Segment) starlark.Value {
	pos := s.Pos()
	return starlarkstruct.FromStringDict(starlark.String("segment"), starlark.StringDict{
		"type":       starlark.String(s.Type()),
		"name":       starlark.String(s.Name()),
		"raw":        starlark.String(s.Raw()),
		"line":       starlark.MakeInt(pos.Line),
		"col":        starlark.MakeInt(pos.Column),
		"is_code":    starlark.Bool(s.IsCode()),
		"is_comment": starlark.Bool(s.IsComment()),
		"is_leaf":    starlark.Bool(len(s.Segments()) == 0),
	})
}

func optionsValue(opts any) (starlark.Value, error) {
	m, _ := opts.(*map[string]any)
	if m == nil || *m == nil {
		return starlark.NewDict(0), nil
	}
	return templater.GoToStarlark(*m)
}

func messagesOf(v starlark.Value) ([]string, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		if v == "" {
			return nil, nil
		}
		return []string{string(v)}, nil
	case *starlark.List:
		out := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			s, ok := v.Index(i).(starlark.String)
			if !ok {
				return nil, fmt.Errorf("check returned a list holding %s", v.Index(i).Type())
			}
			out = append(out, string(s))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("check returned %s, want None, string or list", v.Type())
	}
}

func stringGlobal(globals starlark.StringDict, path, name string, required bool) (string, error) {
	v, ok := globals[name]
	if !ok {
		if required {
			return "", fmt.Errorf(ErrMissingGlobal, path, name)
		}
		return "", nil
	}
	s, ok := v.(starlark.String)
	if !ok {
		return "", fmt.Errorf(ErrGlobalType, path, name, "string", v.Type())
	}
	return string(s), nil
}

func stringListGlobal(globals starlark.StringDict, path, name string) ([]string, error) {
	v, ok := globals[name]
	if !ok {
		return nil, nil
	}
	list, ok := v.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf(ErrGlobalType, path, name, "list", v.Type())
	}
	out := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		s, ok := list.Index(i).(starlark.String)
		if !ok {
			return nil, fmt.Errorf(ErrGlobalType, path, name, "list of strings", list.Index(i).Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}
