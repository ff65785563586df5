// Package reconcile merges a remote compliance snapshot into local
// state.
//
// Merge is a pure function of (local, remote) with no I/O. The policy
// is deliberately simple: timestamp last-writer-wins per response, not
// a causally-consistent CRDT merge. It is idempotent - merging the
// same remote snapshot twice produces the same result as merging it
// once - which is what lets the sync path tolerate reconnects and
// out-of-order remote completions.
//
// Remote data is untrusted: it may conform to a slightly different
// schema or carry dangling references. Repair re-establishes the
// evidence-provenance invariants after every merge rather than
// propagating corruption into local state.
package reconcile

import (
	"github.com/veriflowhq/veriflow/internal/model"
)

// Merge combines a remote snapshot into local state and returns the
// repaired result. Neither input is mutated.
//
// Policy, per key:
//   - Responses: whichever side has the strictly greater UpdatedAt
//     wins; ties favor local. Remote-only responses are adopted,
//     local-only responses are always kept (never drop unsynced work).
//   - Evidence: union of keys; remote never overwrites an existing
//     local entry.
//   - Custom controls: union by id; duplicates are skipped, never
//     overwritten, to avoid clobbering local edits.
//   - Notifications: remote entries not already present are prepended,
//     then the ledger is truncated to the cap.
func Merge(local, remote model.Snapshot) model.Snapshot {
	out := local.Clone()

	for id, theirs := range remote.Responses {
		ours, exists := out.Responses[id]
		if !exists || theirs.UpdatedAt.After(ours.UpdatedAt) {
			out.Responses[id] = theirs
		}
	}

	for id, ev := range remote.Evidence {
		if _, exists := out.Evidence[id]; !exists {
			// Copy the slice so the adopted record never aliases the
			// remote input.
			ev.FileURLs = append([]string(nil), ev.FileURLs...)
			out.Evidence[id] = ev
		}
	}

	known := make(map[string]bool, len(out.CustomControls))
	for _, cc := range out.CustomControls {
		known[cc.ID] = true
	}
	for _, cc := range remote.CustomControls {
		if !known[cc.ID] {
			known[cc.ID] = true
			cc.Mappings = append([]model.FrameworkMapping(nil), cc.Mappings...)
			out.CustomControls = append(out.CustomControls, cc)
		}
	}

	seen := make(map[string]bool, len(out.Notifications))
	for _, n := range out.Notifications {
		seen[n.ID] = true
	}
	var fresh []model.SyncNotification
	for _, n := range remote.Notifications {
		if !seen[n.ID] {
			seen[n.ID] = true
			fresh = append(fresh, n)
		}
	}
	if len(fresh) > 0 {
		out.Notifications = model.PrependNotifications(out.Notifications, fresh...)
	}

	return Repair(out)
}

// Repair re-establishes the evidence-provenance invariants on a
// snapshot in place and returns it:
//
//  1. A response references evidence only while its answer is yes.
//  2. Every referenced evidence record exists and belongs to the same
//     control; a dangling or mismatched reference is dropped rather
//     than left pointing nowhere.
//
// Unreferenced evidence records are deliberately kept: a soft-deleted
// custom control loses its response but retains its evidence for audit
// continuity.
func Repair(s model.Snapshot) model.Snapshot {
	for id, r := range s.Responses {
		if r.EvidenceID == "" {
			continue
		}
		if r.Answer != model.AnswerYes {
			r.EvidenceID = ""
			s.Responses[id] = r
			continue
		}
		ev, ok := s.Evidence[r.EvidenceID]
		if !ok || ev.ControlID != r.ControlID {
			r.EvidenceID = ""
			s.Responses[id] = r
		}
	}
	return s
}
