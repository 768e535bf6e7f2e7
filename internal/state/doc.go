// Package state provides the key/value containers shared between filters.
//
// A render uses two stores: a round-scoped store that is cleared whenever a
// new render starts, and a persistent store that lives for the whole session
// and is written to durable storage between sessions.
//
// Stores are single-threaded. Every write replaces the whole value under a
// key; containers held in a store (slices, sets) are treated as immutable
// and updaters return fresh copies, so no partial mutation is ever observable
// by another caller.
package state
