// Package ir defines the JSON-compatible value model used for everything
// closet writes to durable storage: persistent store entries and the render log.
//
// Values are restricted to null-free JSON without floats so that a stored
// entry reloads verbatim and hashes identically across sessions. The
// canonical encoding follows RFC 8785 (UTF-16 key order, no HTML escaping,
// NFC-normalized strings).
//
// ir imports nothing internal.
package ir
