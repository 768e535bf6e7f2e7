// Package engine drives closet renders.
//
// A render visits the tag occurrences of a document pass by pass. Filters
// that cannot produce output yet return Pending and usually register a
// deferred callback; the engine runs those callbacks at the end of each
// pass and keeps going until the render settles.
//
// PASS LOOP:
//
//  1. Reset: round-scoped store, deferred registry, memo table, coordinator
//  2. BeginPass opens the deferred registry
//  3. Every occurrence is visited in document order; memoized outputs are
//     reused without invoking the filter again
//  4. EndPass closes the registry, moves the render from collecting to
//     final after the first pass, then runs the callbacks in registration
//     order
//  5. The render settles after a final-phase pass with nothing pending and
//     no requested pass
//
// Every trace event is stamped by the logical Clock; ordering never
// depends on wall time. The pass quota bounds renders that never settle.
//
// RenderSession adds persistence: memory is loaded from and saved to the
// SQLite store around the render, and the render is appended to the log.
package engine
