package dialect

import (
	"sort"
	"strings"
)

// Set is a named string set of a dialect, such as its reserved keywords.
// Values are stored upper-cased.
type Set map[string]struct{}

// Add inserts words.
func (s Set) Add(words ...string) {
	for _, w := range words {
		s[strings.ToUpper(w)] = struct{}{}
	}
}

// Remove deletes words.
func (s Set) Remove(words ...string) {
	for _, w := range words {
		delete(s, strings.ToUpper(w))
	}
}

// Has reports whether word is in the set, ignoring case.
func (s Set) Has(word string) bool {
	_, ok := s[strings.ToUpper(word)]
	return ok
}

// Sorted returns the members in order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for w := range s {
		c[w] = struct{}{}
	}
	return c
}
