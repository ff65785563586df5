// Package model provides the domain types for the compliance response
// and evidence synchronization engine.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import model; model imports nothing internal. This
// ensures the data model remains the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Value semantics everywhere: maps hold structs, not pointers, so
//     snapshots can be deep-copied and merged as pure data
//   - All JSON tags use snake_case
//   - Timestamps are wall-clock time.Time in UTC; ordering between
//     responses uses UpdatedAt (last-writer-wins during reconciliation)
//   - The evidence-provenance invariant (EvidenceID set iff Answer is
//     yes) is enforced by the state store and repaired by reconcile,
//     never assumed from external data
package model
