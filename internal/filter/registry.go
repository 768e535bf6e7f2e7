package filter

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrUnknownFilter is returned when a tag names a filter that is not registered.
var ErrUnknownFilter = errors.New("unknown filter")

// Recipe installs one or more filters into a registry.
type Recipe func(r *Registry)

// Registry maps filter names to filters. It holds no per-occurrence state.
type Registry struct {
	filters  map[string]Filter
	fallback Filter
}

// NewRegistry creates an empty registry whose fallback is Passthrough.
func NewRegistry() *Registry {
	return &Registry{
		filters:  make(map[string]Filter),
		fallback: Passthrough,
	}
}

// Register installs f under name, replacing any previous filter.
func (r *Registry) Register(name string, f Filter) {
	r.filters[name] = f
}

// AddRecipe applies each recipe to the registry.
func (r *Registry) AddRecipe(recipes ...Recipe) {
	for _, recipe := range recipes {
		recipe(r)
	}
}

// Unregister removes the filter registered under name.
func (r *Registry) Unregister(name string) {
	delete(r.filters, name)
}

// Has reports whether a filter is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.filters[name]
	return ok
}

// Get returns the filter registered under name.
func (r *Registry) Get(name string) (Filter, bool) {
	f, ok := r.filters[name]
	return f, ok
}

// GetOrDefault returns the filter registered under name, or the fallback.
func (r *Registry) GetOrDefault(name string) Filter {
	if f, ok := r.filters[name]; ok {
		return f
	}
	return r.fallback
}

// SetDefault replaces the fallback returned by GetOrDefault.
func (r *Registry) SetDefault(f Filter) {
	r.fallback = f
}

// Clear removes every registered filter. The fallback is kept.
func (r *Registry) Clear() {
	clear(r.filters)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.filters))
}

// Execute runs the filter registered under tag.Key.
// Unregistered names fail with ErrUnknownFilter.
func (r *Registry) Execute(tag Tag, ctx *Context) (Result, error) {
	f, ok := r.filters[tag.Key]
	if !ok {
		return Result{}, fmt.Errorf("tag %q: %w", tag.Key, ErrUnknownFilter)
	}
	return f(tag, ctx)
}

// Passthrough emits the tag's values unchanged, joined by "::".
func Passthrough(tag Tag, _ *Context) (Result, error) {
	return Output(strings.Join(tag.Values, "::")), nil
}
