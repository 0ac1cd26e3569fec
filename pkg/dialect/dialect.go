// Package dialect provides the grammar library a SQL dialect is made of.
//
// A Dialect maps names to grammars and segment kinds, carries the lexer
// matchers and named string sets (keywords and the like), and declares its
// bracket pairs. Dialects inherit by copy: a child is created with CopyAs
// and then extended with Add and Replace. Concrete dialects are registered
// from pkg/dialects/*/ packages.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Errors returned while building or resolving a dialect.
var (
	ErrMissingEntry   = errors.New("dialect has no entry")
	ErrDuplicateEntry = errors.New("dialect entry already exists")
	ErrMissingMatcher = errors.New("dialect has no lexer matcher")
)

// SegmentGenerator builds an entry from the dialect it is resolved in. It
// runs once per dialect, so entries derived from sets (such as keyword
// segments) pick up the child dialect's sets.
type SegmentGenerator func(d *Dialect) (segment.Matchable, error)

type entry struct {
	m   segment.Matchable
	gen SegmentGenerator
}

// Dialect is a named grammar library.
type Dialect struct {
	name        string
	parent      *Dialect
	Description string

	mu         sync.RWMutex
	library    map[string]entry
	sets       map[string]Set
	matchers   []lexer.Matcher
	lastResort lexer.Matcher
	brackets   []segment.BracketPair
	expanded   bool
}

// New creates an empty root dialect.
func New(name string) *Dialect {
	return &Dialect{
		name:    name,
		library: make(map[string]entry),
		sets:    make(map[string]Set),
	}
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Parent returns the dialect d was copied from, or nil.
func (d *Dialect) Parent() *Dialect { return d.parent }

// CopyAs returns an unexpanded child of d called name holding copies of
// d's entries, sets, lexer matchers and bracket pairs. Changing the child
// never affects d.
func (d *Dialect) CopyAs(name string) *Dialect {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c := New(name)
	c.parent = d
	c.Description = d.Description
	for k, e := range d.library {
		c.library[k] = e
	}
	for k, s := range d.sets {
		c.sets[k] = s.Clone()
	}
	c.matchers = append([]lexer.Matcher(nil), d.matchers...)
	c.lastResort = d.lastResort
	c.brackets = append([]segment.BracketPair(nil), d.brackets...)
	return c
}

// Add inserts entries. It fails, changing nothing, if any name exists.
func (d *Dialect) Add(entries map[string]segment.Matchable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range sortedKeys(entries) {
		if _, ok := d.library[name]; ok {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateEntry, d.name, name)
		}
	}
	for name, m := range entries {
		d.library[name] = entry{m: m}
	}
	return nil
}

// Replace overwrites entries. It fails, changing nothing, if any name is
// absent.
func (d *Dialect) Replace(entries map[string]segment.Matchable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range sortedKeys(entries) {
		if _, ok := d.library[name]; !ok {
			return fmt.Errorf("%w %s.%s to replace", ErrMissingEntry, d.name, name)
		}
	}
	for name, m := range entries {
		d.library[name] = entry{m: m}
	}
	return nil
}

// AddGenerator inserts an entry built on first use.
func (d *Dialect) AddGenerator(name string, gen SegmentGenerator) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.library[name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateEntry, d.name, name)
	}
	d.library[name] = entry{gen: gen}
	return nil
}

// Sets returns the named string set, creating it when absent. The set is
// shared with the dialect: changes to it are visible to generators that
// have not run yet.
func (d *Dialect) Sets(name string) Set {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sets[name]
	if !ok {
		s = make(Set)
		d.sets[name] = s
	}
	return s
}

// Ref resolves an entry, running its generator if it has one.
func (d *Dialect) Ref(name string) (segment.Matchable, error) {
	d.mu.RLock()
	e, ok := d.library[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (dialect %s)", ErrMissingEntry, name, d.name)
	}
	if e.gen == nil {
		return e.m, nil
	}

	// Generators may read the dialect, so they run unlocked.
	m, err := e.gen(d)
	if err != nil {
		return nil, fmt.Errorf("generating %s.%s: %w", d.name, name, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur := d.library[name]; cur.gen == nil {
		return cur.m, nil
	}
	d.library[name] = entry{m: m}
	return m, nil
}

// Expand runs every pending generator. After Expand the dialect is only
// read, so it may be shared between goroutines.
func (d *Dialect) Expand() error {
	for _, name := range d.Entries() {
		if _, err := d.Ref(name); err != nil {
			return err
		}
	}
	d.mu.Lock()
	d.expanded = true
	d.mu.Unlock()
	return nil
}

// Expanded reports whether Expand has run.
func (d *Dialect) Expanded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.expanded
}

// Entries returns the entry names, sorted.
func (d *Dialect) Entries() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedKeys(d.library)
}

// ---------- brackets ----------

// BracketPairs returns the bracket pairs known to the dialect.
func (d *Dialect) BracketPairs() []segment.BracketPair {
	return d.brackets
}

// SetBracketPairs declares the dialect's bracket pairs.
func (d *Dialect) SetBracketPairs(pairs ...segment.BracketPair) {
	d.brackets = pairs
}

// ---------- lexer ----------

// LexerMatchers returns the lexer matchers in order.
func (d *Dialect) LexerMatchers() []lexer.Matcher {
	return d.matchers
}

// SetLexerMatchers replaces the lexer matchers.
func (d *Dialect) SetLexerMatchers(ms []lexer.Matcher) {
	d.matchers = append([]lexer.Matcher(nil), ms...)
}

// PatchLexerMatchers replaces existing matchers by name, keeping their
// position. Matchers with a name not present are ignored.
func (d *Dialect) PatchLexerMatchers(ms []lexer.Matcher) {
	byName := make(map[string]lexer.Matcher, len(ms))
	for _, m := range ms {
		byName[m.Name()] = m
	}
	for i, m := range d.matchers {
		if p, ok := byName[m.Name()]; ok {
			d.matchers[i] = p
		}
	}
}

// InsertLexerMatchers inserts ms before the first matcher called before.
func (d *Dialect) InsertLexerMatchers(ms []lexer.Matcher, before string) error {
	for i, m := range d.matchers {
		if m.Name() != before {
			continue
		}
		out := make([]lexer.Matcher, 0, len(d.matchers)+len(ms))
		out = append(out, d.matchers[:i]...)
		out = append(out, ms...)
		out = append(out, d.matchers[i:]...)
		d.matchers = out
		return nil
	}
	return fmt.Errorf("%w %q (dialect %s)", ErrMissingMatcher, before, d.name)
}

// SetLastResort overrides the matcher used for otherwise unlexable input.
func (d *Dialect) SetLastResort(m lexer.Matcher) {
	d.lastResort = m
}

// Lexer returns a lexer for the dialect.
func (d *Dialect) Lexer() *lexer.Lexer {
	return lexer.New(d.matchers, d.lastResort)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
