// Package shuffle provides the "mix" filter: values are reordered either per
// occurrence or, when occurrences carry a count, across every occurrence that
// shares a qualified key.
//
// Coordinated occurrences pool their values. Once the pool is complete it is
// reordered exactly once, using sort keys kept in the persistent store, and
// each occurrence then drains its own count of values from the front of the
// pool in document order.
//
// The sort keys are only ever extended ("topped up"), never rewritten. A
// document rendered again with the same or a growing set of values keeps the
// relative order of every value seen before and randomizes only new ones.
//
// Keys used in the round-scoped store, for a qualified key q and occurrence id:
//
//	q               the shared pool ([]string)
//	q:waitingSet    occurrences that asked to finalize (state.Set)
//	q:mixed         the pool has been reordered (bool)
//	q:<occ>:apply   the occurrence's contribution was acknowledged (bool)
//
// The persistent store holds the sort keys for q under q itself.
package shuffle
