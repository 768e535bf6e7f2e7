// Package round implements the pass protocol of a render.
//
// A render is a sequence of passes over every tag occurrence of a document.
// The first pass runs in the Collecting phase: filters that need to know every
// contributing occurrence record their intent and produce no output. After
// that pass the Coordinator flips to Final, exactly once, and every later
// pass may read shared results.
//
// At the end of each pass the Coordinator runs the callbacks collected in the
// deferred Registry, in registration order, and clears it. Registration is
// idempotent per name, so work scheduled by many sibling occurrences runs once.
package round
