// Package templater renders templated SQL before it is lexed. The parse
// tree always covers the templated text, never the source.
package templater

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TemplatedFile is the output of a templater.
type TemplatedFile struct {
	Path      string
	Source    string // text as read from disk
	Templated string // text handed to the lexer
}

// Templater turns source text into SQL.
type Templater interface {
	Name() string
	Process(ctx context.Context, raw, path string) (*TemplatedFile, error)
}

// ErrUnknownTemplater is returned by Get for an unregistered name.
var ErrUnknownTemplater = errors.New("unknown templater")

// Factory builds a templater from the configured template variables.
type Factory func(vars map[string]any) (Templater, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register makes a templater available by name.
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[strings.ToLower(name)] = f
}

// Get builds the templater registered as name. An empty name selects the
// raw templater.
func Get(name string, vars map[string]any) (Templater, error) {
	if name == "" {
		name = RawName
	}
	factoriesMu.RLock()
	f, ok := factories[strings.ToLower(name)]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTemplater, name, strings.Join(List(), ", "))
	}
	return f(vars)
}

// List returns the registered templater names, sorted.
func List() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(RawName, func(map[string]any) (Templater, error) { return Raw{}, nil })
	Register(StarlarkName, func(vars map[string]any) (Templater, error) { return NewStarlark(vars) })
}

// =============================================================================
// Raw
// =============================================================================

// RawName is the registry name of the raw templater.
const RawName = "raw"

// Raw passes text through untouched.
type Raw struct{}

func (Raw) Name() string { return RawName }

func (Raw) Process(_ context.Context, raw, path string) (*TemplatedFile, error) {
	return &TemplatedFile{Path: path, Source: raw, Templated: raw}, nil
}
