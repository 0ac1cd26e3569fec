package templater

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// StarlarkName is the registry name of the Starlark templater.
const StarlarkName = "starlark"

// Starlark replaces every {{ expr }} with the string form of the Starlark
// expression, evaluated against the template variables. String results
// are inserted without quotes.
type Starlark struct {
	globals starlark.StringDict
}

// NewStarlark converts vars into Starlark globals.
func NewStarlark(vars map[string]any) (*Starlark, error) {
	globals := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := GoToStarlark(vars[k])
		if err != nil {
			return nil, fmt.Errorf(ErrUnsupported+": %w", k, err)
		}
		globals[k] = v
	}
	globals.Freeze()
	return &Starlark{globals: globals}, nil
}

func (s *Starlark) Name() string { return StarlarkName }

// Process renders raw. Evaluation stops when ctx is cancelled.
func (s *Starlark) Process(ctx context.Context, raw, path string) (*TemplatedFile, error) {
	chunks, terr := scan(raw)
	if terr != nil {
		terr.Path = path
		return nil, terr
	}

	thread := &starlark.Thread{
		Name:  path,
		Print: func(*starlark.Thread, string) {},
	}
	stop := context.AfterFunc(ctx, func() { thread.Cancel("context cancelled") })
	defer stop()

	var sb strings.Builder
	sb.Grow(len(raw))
	for _, c := range chunks {
		if c.kind == chunkText {
			sb.WriteString(c.value)
			continue
		}
		v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, path, c.value, s.globals)
		if err != nil {
			return nil, &TemplateError{
				Path:    path,
				Pos:     c.pos,
				Message: fmt.Sprintf(ErrEvalFailed, c.value),
				Cause:   err,
			}
		}
		if str, ok := v.(starlark.String); ok {
			sb.WriteString(string(str))
		} else {
			sb.WriteString(v.String())
		}
	}
	return &TemplatedFile{Path: path, Source: raw, Templated: sb.String()}, nil
}

// GoToStarlark converts a Go value to a Starlark value.
// Supported types: string, int, int64, float64, bool, []string, []any, map[string]any
func GoToStarlark(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case string:
		return starlark.String(val), nil

	case int:
		return starlark.MakeInt(val), nil

	case int64:
		return starlark.MakeInt64(val), nil

	case float64:
		return starlark.Float(val), nil

	case bool:
		return starlark.Bool(val), nil

	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil

	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil

	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, v := range val {
			sv, err := GoToStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
