// Package filter defines tag occurrences, the execution context handed to
// filters, and the registry mapping tag names to filters.
//
// The external tokenizer produces one Tag per placeholder occurrence per pass
// and asks the Registry to execute the filter registered under the tag's key.
// Filters are functions of (Tag, *Context); their only side effects go through
// the stores and the deferred registry reachable from the Context.
package filter
