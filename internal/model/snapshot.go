package model

import "time"

// MaxNotifications caps the notification ledger. Only the most recent
// entries are retained; the ledger is informational, not authoritative.
const MaxNotifications = 50

// Snapshot is the aggregate compliance state for one organization:
// responses keyed by control id, live evidence keyed by evidence id,
// the custom control list, and the bounded notification ledger.
//
// Snapshot is plain data. The state store owns the live instance;
// everything handed to observers or the reconciliation engine is a
// deep copy, so callers can never mutate owned state through aliasing.
type Snapshot struct {
	Responses      map[string]ControlResponse `json:"responses"`
	Evidence       map[string]EvidenceRecord  `json:"evidence"`
	CustomControls []CustomControl            `json:"custom_controls,omitempty"`
	Notifications  []SyncNotification         `json:"notifications,omitempty"`
	LastSynced     time.Time                  `json:"last_synced,omitzero"`
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() Snapshot {
	return Snapshot{
		Responses: make(map[string]ControlResponse),
		Evidence:  make(map[string]EvidenceRecord),
	}
}

// Clone returns a deep copy. Map entries are value structs, so copying
// the maps and the slices (including each mapping and file URL slice)
// fully isolates the result from the receiver.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Responses:  make(map[string]ControlResponse, len(s.Responses)),
		Evidence:   make(map[string]EvidenceRecord, len(s.Evidence)),
		LastSynced: s.LastSynced,
	}
	for k, r := range s.Responses {
		out.Responses[k] = r
	}
	for k, e := range s.Evidence {
		e.FileURLs = cloneStrings(e.FileURLs)
		out.Evidence[k] = e
	}
	if s.CustomControls != nil {
		out.CustomControls = make([]CustomControl, len(s.CustomControls))
		for i, c := range s.CustomControls {
			c.Mappings = cloneMappings(c.Mappings)
			out.CustomControls[i] = c
		}
	}
	if s.Notifications != nil {
		out.Notifications = make([]SyncNotification, len(s.Notifications))
		copy(out.Notifications, s.Notifications)
	}
	return out
}

// PrependNotifications pushes items onto the front of ledger, newest
// first, and truncates to MaxNotifications.
func PrependNotifications(ledger []SyncNotification, items ...SyncNotification) []SyncNotification {
	out := make([]SyncNotification, 0, len(items)+len(ledger))
	out = append(out, items...)
	out = append(out, ledger...)
	if len(out) > MaxNotifications {
		out = out[:MaxNotifications]
	}
	return out
}

func cloneMappings(ms []FrameworkMapping) []FrameworkMapping {
	if ms == nil {
		return nil
	}
	out := make([]FrameworkMapping, len(ms))
	copy(out, ms)
	return out
}

func cloneStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	copy(out, ss)
	return out
}
