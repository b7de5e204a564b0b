// Package repository provides a generic repository built on Bun for
// identifier-keyed entities: point lookups, ordered listing, partial
// create and update from payloads, hard delete and tombstoning. Writes run
// in a nested scope of the caller's session so a failed write leaves the
// enclosing transaction usable.
package repository
