package segment

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
)

// RecurseUnlimited lets expansion descend to every level.
const RecurseUnlimited = -1

// BracketPair declares one kind of bracket known to a dialect. Start and
// End name dialect entries that match the opening and closing tokens.
type BracketPair struct {
	Type  string // "round", "square" or "curly"
	Start string
	End   string
}

// Resolver is the view of a dialect the engine needs while parsing.
type Resolver interface {
	Name() string
	// Ref resolves a named grammar or segment kind.
	Ref(name string) (Matchable, error)
	BracketPairs() []BracketPair
}

// TracePhase marks entry to or exit from a matcher.
type TracePhase int

// Trace phases.
const (
	TraceEnter TracePhase = iota
	TraceExit
)

// TraceEvent is passed to the trace hook around every match.
type TraceEvent struct {
	Phase        TracePhase
	Matcher      string
	MatchSegment string
	MatchDepth   int
	ParseDepth   int
	Input        int
	Matched      int
}

// TraceFunc observes matcher entry and exit.
type TraceFunc func(TraceEvent)

// ParseContext is the walker state threaded through one top-level parse.
// Depth counters are copied as the walk descends; the blacklist and the
// recorded problems are shared by every copy.
type ParseContext struct {
	Dialect      Resolver
	Logger       *slog.Logger
	Trace        TraceFunc
	Verbosity    int
	Recurse      int
	MatchDepth   int
	ParseDepth   int
	MatchSegment string

	shared *sharedState
}

type blacklistKey struct {
	name   string
	first  uint64
	last   uint64
	length int
	hash   uint64
}

type spanKey struct {
	first  uint64
	last   uint64
	length int
}

type sharedState struct {
	blacklist map[blacklistKey]struct{}
	rawSets   map[spanKey]map[string]bool
	problems  []error
	seen      map[uint64]bool
}

// NewParseContext returns a context for parsing against d.
func NewParseContext(d Resolver) *ParseContext {
	return &ParseContext{
		Dialect: d,
		Logger:  discardLogger,
		Recurse: RecurseUnlimited,
		shared: &sharedState{
			blacklist: make(map[blacklistKey]struct{}),
			rawSets:   make(map[spanKey]map[string]bool),
			seen:      make(map[uint64]bool),
		},
	}
}

func (c *ParseContext) log() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)

func (c *ParseContext) deeperMatch() *ParseContext {
	n := *c
	n.MatchDepth++
	return &n
}

func (c *ParseContext) deeperParse() *ParseContext {
	n := *c
	n.ParseDepth++
	n.MatchDepth = 0
	if n.Recurse > 0 {
		n.Recurse--
	}
	return &n
}

func (c *ParseContext) withMatchSegment(name string) *ParseContext {
	n := *c
	n.MatchSegment = name
	return &n
}

// WithMatchSegment returns a copy labelled with the segment being matched.
func (c *ParseContext) WithMatchSegment(name string) *ParseContext {
	return c.withMatchSegment(name)
}

func (c *ParseContext) trace(phase TracePhase, m Matchable, input, matched int) {
	if c.Trace == nil {
		return
	}
	c.Trace(TraceEvent{
		Phase:        phase,
		Matcher:      fmt.Sprint(m),
		MatchSegment: c.MatchSegment,
		MatchDepth:   c.MatchDepth,
		ParseDepth:   c.ParseDepth,
		Input:        input,
		Matched:      matched,
	})
}

// ---------- blacklist ----------

func makeKey(name string, segs []Segment) blacklistKey {
	k := blacklistKey{name: name, length: len(segs)}
	if len(segs) == 0 {
		return k
	}
	k.first = segs[0].ID()
	k.last = segs[len(segs)-1].ID()
	h := fnv.New64a()
	var buf [8]byte
	for _, s := range segs {
		id := s.ID()
		for i := range buf {
			buf[i] = byte(id >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	k.hash = h.Sum64()
	return k
}

// Blacklisted reports whether name is known not to match segs.
func (c *ParseContext) Blacklisted(name string, segs []Segment) bool {
	_, ok := c.shared.blacklist[makeKey(name, segs)]
	return ok
}

// Blacklist records that name does not match segs.
func (c *ParseContext) Blacklist(name string, segs []Segment) {
	c.shared.blacklist[makeKey(name, segs)] = struct{}{}
}

// ClearBlacklist forgets every recorded negative match, along with the
// memoized raw sets.
func (c *ParseContext) ClearBlacklist() {
	clear(c.shared.blacklist)
	clear(c.shared.rawSets)
}

// BlacklistLen returns the number of recorded negative matches.
func (c *ParseContext) BlacklistLen() int {
	return len(c.shared.blacklist)
}

// ---------- raw sets ----------

// UpperRaws returns the upper-cased raw strings of the code leaves in segs.
// The set is built once per span and must not be modified.
func (c *ParseContext) UpperRaws(segs []Segment) map[string]bool {
	var k spanKey
	if len(segs) > 0 {
		k = spanKey{first: segs[0].ID(), last: segs[len(segs)-1].ID(), length: len(segs)}
	}
	if set, ok := c.shared.rawSets[k]; ok {
		return set
	}
	set := make(map[string]bool)
	for _, s := range segs {
		addUpperRaws(set, s)
	}
	c.shared.rawSets[k] = set
	return set
}

func addUpperRaws(set map[string]bool, s Segment) {
	children := s.Segments()
	if len(children) == 0 {
		if s.IsCode() {
			set[strings.ToUpper(s.Raw())] = true
		}
		return
	}
	for _, c := range children {
		addUpperRaws(set, c)
	}
}

// ---------- problems ----------

// RecordProblem notes a recoverable failure, such as an unbalanced
// bracket, once per key.
func (c *ParseContext) RecordProblem(key uint64, err error) {
	if c.shared.seen[key] {
		return
	}
	c.shared.seen[key] = true
	c.shared.problems = append(c.shared.problems, err)
}

// Problems returns the recorded failures in the order first seen.
func (c *ParseContext) Problems() []error {
	return c.shared.problems
}
