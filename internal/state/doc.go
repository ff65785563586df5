// Package state implements the compliance state store: the single
// owner of an organization's control responses, evidence records,
// custom controls, and notification ledger.
//
// The store is an explicit state machine rather than a reactive hook:
// mutation methods change owned state, persist it synchronously to the
// namespaced key-value store, then issue best-effort asynchronous
// remote writes. Observers registered with Subscribe receive a deep
// copy of the snapshot after every mutation.
//
// Evidence-provenance invariants, enforced on every mutation:
//  1. A response carries an EvidenceID iff its answer is yes.
//  2. Every referenced evidence record exists, is unique, and belongs
//     to the same control.
//  3. UpdatedAt is strictly monotonic per control within a process.
//
// All public operations are total for structurally valid inputs.
// Unknown control ids yield a typed StateError; storage read failures
// substitute empty defaults; remote failures are logged, never
// surfaced - local state remains the source of truth.
package state
