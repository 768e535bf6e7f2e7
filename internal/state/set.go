package state

import (
	"maps"
	"slices"
)

// Set is an immutable set of strings. With and Without return copies.
type Set map[string]struct{}

// With returns a copy of s that also contains id.
func (s Set) With(id string) Set {
	out := make(Set, len(s)+1)
	maps.Copy(out, s)
	out[id] = struct{}{}
	return out
}

// Without returns a copy of s that does not contain id.
func (s Set) Without(id string) Set {
	out := maps.Clone(s)
	if out == nil {
		return Set{}
	}
	delete(out, id)
	return out
}

// Contains reports whether id is in s.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Members returns the members in sorted order.
func (s Set) Members() []string {
	return slices.Sorted(maps.Keys(s))
}
