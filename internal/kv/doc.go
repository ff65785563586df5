// Package kv provides the local key-value persistence primitive used
// by the compliance state store.
//
// The store is synchronous, string-keyed, and holds opaque JSON blobs.
// Namespacing (scoping keys to an organization) is the caller's
// concern; see internal/namespace.
//
// Three implementations:
//   - SQLite (production default): single kv table, WAL mode,
//     idempotent schema apply
//   - Badger (production alternative): embedded LSM store, supports
//     a fully in-memory mode
//   - Memory: mutex-guarded map for tests
//
// All implementations treat a missing key as ErrNotFound. Callers are
// expected to substitute an empty default on read failure; nothing in
// the mutation path may fail because prior state was unreadable.
package kv
