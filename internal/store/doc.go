// Package store provides SQLite-backed durable storage for closet sessions.
//
// Two tables are kept:
//   - memory: the persistent store of each session, one row per key, values
//     as canonical JSON so they reload verbatim
//   - renders: an append-only log of finished renders with content-addressed ids
//
// # Ordering
//
// Render log reads are ordered by seq, a logical clock value, never by wall
// time, with ties broken by id. Memory reads are ordered by key.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - single open connection (SQLite has one writer)
package store
