package state

import (
	"maps"
	"slices"
)

// Store is a key/value container with functional-update semantics.
//
// Absent keys behave as the caller-supplied default until the first write.
// The zero value is not usable; call New.
type Store struct {
	entries map[string]any
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]any)}
}

// FromMap creates a store holding a copy of m.
func FromMap(m map[string]any) *Store {
	s := New()
	maps.Copy(s.entries, m)
	return s
}

// Get returns the value stored under key, or def if the key is absent.
func (s *Store) Get(key string, def any) any {
	if v, ok := s.entries[key]; ok {
		return v
	}
	return def
}

// Set replaces the value stored under key.
func (s *Store) Set(key string, value any) {
	s.entries[key] = value
}

// Update stores and returns updater(Get(key, def)).
//
// The updater decides the semantics: folding a contribution onto an
// accumulated value, or deriving a modified copy of a container.
func (s *Store) Update(key string, updater func(any) any, def any) any {
	v := updater(s.Get(key, def))
	s.entries[key] = v
	return v
}

// Has reports whether key has been written.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	delete(s.entries, key)
}

// Clear removes every entry.
func (s *Store) Clear() {
	clear(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Snapshot returns a shallow copy of all entries.
func (s *Store) Snapshot() map[string]any {
	return maps.Clone(s.entries)
}

// GetAs returns the value under key as a T.
// Absent keys and values of another type yield def.
func GetAs[T any](s *Store, key string, def T) T {
	if v, ok := s.Get(key, def).(T); ok {
		return v
	}
	return def
}

// UpdateAs is the typed form of Store.Update.
func UpdateAs[T any](s *Store, key string, updater func(T) T, def T) T {
	v := updater(GetAs(s, key, def))
	s.Set(key, v)
	return v
}

// Append folds items onto the slice stored under key and returns the result.
// The stored slice is never modified in place.
func Append[T any](s *Store, key string, items ...T) []T {
	return UpdateAs(s, key, func(cur []T) []T {
		return slices.Concat(cur, items)
	}, nil)
}
