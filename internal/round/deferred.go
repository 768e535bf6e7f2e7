package round

import (
	"errors"
	"fmt"
)

// ErrNoActiveRound is returned when deferred work is registered, or a pass is
// ended, while no pass is running.
var ErrNoActiveRound = errors.New("no active round")

type deferredEntry struct {
	name string
	fn   func()
}

// Registry collects named callbacks for the end of the current pass.
type Registry struct {
	entries []deferredEntry
	names   map[string]struct{}
	active  bool
}

// NewRegistry creates an empty, inactive registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// RegisterIfNotExists schedules fn under name unless a callback with that name
// is already scheduled for this pass. The first registration wins.
func (r *Registry) RegisterIfNotExists(name string, fn func()) error {
	if !r.active {
		return fmt.Errorf("register deferred %q: %w", name, ErrNoActiveRound)
	}
	if _, ok := r.names[name]; ok {
		return nil
	}
	r.names[name] = struct{}{}
	r.entries = append(r.entries, deferredEntry{name: name, fn: fn})
	return nil
}

// Has reports whether a callback is scheduled under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Len returns the number of scheduled callbacks.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the scheduled names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Clear drops every scheduled callback without running it.
func (r *Registry) Clear() {
	r.entries = nil
	clear(r.names)
}

// Active reports whether registrations are currently accepted.
func (r *Registry) Active() bool {
	return r.active
}

func (r *Registry) open() {
	r.active = true
}

func (r *Registry) close() {
	r.active = false
}

// run executes every callback in registration order and clears the registry.
// Callbacks run while the registry is closed, so they cannot schedule more work.
func (r *Registry) run() []string {
	entries := r.entries
	r.Clear()

	ran := make([]string, 0, len(entries))
	for _, e := range entries {
		e.fn()
		ran = append(ran, e.name)
	}
	return ran
}
