package filter

import (
	"math/rand/v2"
	"strconv"

	"github.com/kleinerpirat/closet/internal/round"
	"github.com/kleinerpirat/closet/internal/state"
)

// Tag is one placeholder occurrence found in a template.
//
// Occurrences sharing a QualifiedKey cooperate on shared state. Occurrence
// identifies the physical occurrence and is stable across passes.
type Tag struct {
	Key          string
	QualifiedKey string
	Occurrence   int
	// Count is the explicit ordinal argument; nil means no coordination
	// was requested.
	Count  *int
	Values []string
}

// NewTag builds a tag whose qualified key is key followed by qualifier.
func NewTag(key, qualifier string, occurrence int, values ...string) Tag {
	return Tag{
		Key:          key,
		QualifiedKey: key + qualifier,
		Occurrence:   occurrence,
		Values:       values,
	}
}

// WithCount returns a copy of t carrying the ordinal n.
func (t Tag) WithCount(n int) Tag {
	t.Count = &n
	return t
}

// Num returns the ordinal argument and whether it was supplied.
func (t Tag) Num() (int, bool) {
	if t.Count == nil {
		return 0, false
	}
	return *t.Count, true
}

// ID identifies the occurrence within its qualified key: "qualifiedKey:occurrence".
func (t Tag) ID() string {
	return t.QualifiedKey + ":" + strconv.Itoa(t.Occurrence)
}

// Tokenizer is the part of the external tokenizer that filters may call back into.
type Tokenizer interface {
	// UpdateDelimiters switches the tag delimiters for the next parse.
	// Empty strings restore the defaults.
	UpdateDelimiters(open, close string)
}

// Context is passed by reference to every filter invocation of a pass.
type Context struct {
	// Cache is the round-scoped store, cleared when a render starts.
	Cache *state.Store
	// Memory is the persistent store, kept across renders and sessions.
	Memory *state.Store
	// Deferred collects end-of-pass callbacks.
	Deferred *round.Registry
	// Round reports the render phase.
	Round *round.Coordinator
	// Rand is the randomness source for filters that reorder values.
	Rand *rand.Rand
	// Custom is free for the embedding application.
	Custom any
	// Tokenizer may be nil when no tokenizer callbacks are available.
	Tokenizer Tokenizer
}

// Result is the outcome of one filter invocation.
type Result struct {
	Text string
	// Memoize asks the caller to reuse Text on later passes instead of
	// invoking the filter again.
	Memoize bool
	// Pending means the filter has no output yet and wants another pass.
	Pending bool
}

// Pending is the result of a filter that cannot produce output yet.
var Pending = Result{Pending: true}

// Output returns a plain result.
func Output(text string) Result {
	return Result{Text: text}
}

// Memoized returns a result that is reused on later passes.
func Memoized(text string) Result {
	return Result{Text: text, Memoize: true}
}

// Filter expands a tag occurrence.
//
// A returned error is a usage error and aborts the render; "no output yet"
// is expressed with Pending, never with an error.
type Filter func(tag Tag, ctx *Context) (Result, error)

// Decider gates whether a tag is active. Deciders are pure.
type Decider func(tag Tag, ctx *Context) bool

// Gate returns a filter that runs active when d holds and inactive otherwise.
// A nil inactive filter yields empty output.
func Gate(d Decider, active, inactive Filter) Filter {
	return func(tag Tag, ctx *Context) (Result, error) {
		if d(tag, ctx) {
			return active(tag, ctx)
		}
		if inactive == nil {
			return Output(""), nil
		}
		return inactive(tag, ctx)
	}
}
