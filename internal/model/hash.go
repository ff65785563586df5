package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Domain prefixes for fingerprint computation. The version suffix
// enables future algorithm migration without ambiguity.
const (
	domainSnapshot = "veriflow/snapshot/v1"
	domainResponse = "veriflow/response/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed digest of the snapshot.
// Two snapshots with identical logical content produce identical
// fingerprints regardless of map iteration order or JSON formatting.
//
// The state store compares fingerprints before and after a merge to
// detect no-op reconciliations; tests use them to assert merge
// idempotence. LastSynced is excluded: it records when reconciliation
// ran, not what the state is.
func (s Snapshot) Fingerprint() (string, error) {
	obj := map[string]any{
		"responses":       make(map[string]any, len(s.Responses)),
		"evidence":        make(map[string]any, len(s.Evidence)),
		"custom_controls": make([]any, 0, len(s.CustomControls)),
		"notifications":   make([]any, 0, len(s.Notifications)),
	}
	responses := obj["responses"].(map[string]any)
	for k, r := range s.Responses {
		responses[k] = responseMap(r)
	}
	evidence := obj["evidence"].(map[string]any)
	for k, e := range s.Evidence {
		evidence[k] = map[string]any{
			"id":                  e.ID,
			"control_response_id": e.ControlResponseID,
			"control_id":          e.ControlID,
			"notes":               e.Notes,
			"status":              string(e.Status),
			"file_urls":           e.FileURLs,
			"created_at":          nanos(e.CreatedAt),
			"updated_at":          nanos(e.UpdatedAt),
			"reviewed_by":         e.ReviewedBy,
			"approved_at":         nanos(e.ApprovedAt),
		}
	}
	customs := obj["custom_controls"].([]any)
	for _, c := range s.CustomControls {
		mappings := make([]any, 0, len(c.Mappings))
		for _, m := range c.Mappings {
			mappings = append(mappings, map[string]any{
				"framework_id":      m.FrameworkID,
				"clause_id":         m.ClauseID,
				"clause_title":      m.ClauseTitle,
				"custom_control_id": m.CustomControlID,
			})
		}
		customs = append(customs, map[string]any{
			"id":          c.ID,
			"title":       c.Title,
			"description": c.Description,
			"domain":      c.Domain,
			"risk":        string(c.Risk),
			"mappings":    mappings,
			"is_active":   c.IsActive,
			"created_at":  nanos(c.CreatedAt),
			"updated_at":  nanos(c.UpdatedAt),
		})
	}
	obj["custom_controls"] = customs
	notes := obj["notifications"].([]any)
	for _, n := range s.Notifications {
		notes = append(notes, map[string]any{
			"id":           n.ID,
			"control_id":   n.ControlID,
			"framework_id": n.FrameworkID,
			"clause_id":    n.ClauseID,
			"clause_title": n.ClauseTitle,
			"message":      n.Message,
			"created_at":   nanos(n.CreatedAt),
		})
	}
	obj["notifications"] = notes

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("snapshot fingerprint: %w", err)
	}
	return hashWithDomain(domainSnapshot, canonical), nil
}

// ResponseFingerprint computes a digest of a single response. The
// sync client sends it alongside each save so the remote store can
// discard replayed writes without parsing the body.
func ResponseFingerprint(r ControlResponse) (string, error) {
	canonical, err := MarshalCanonical(responseMap(r))
	if err != nil {
		return "", fmt.Errorf("response fingerprint: %w", err)
	}
	return hashWithDomain(domainResponse, canonical), nil
}

func responseMap(r ControlResponse) map[string]any {
	return map[string]any{
		"id":               r.ID,
		"control_id":       r.ControlID,
		"answer":           string(r.Answer),
		"evidence_id":      r.EvidenceID,
		"remediation_plan": r.RemediationPlan,
		"answered_at":      nanos(r.AnsweredAt),
		"updated_at":       nanos(r.UpdatedAt),
		"answered_by":      r.AnsweredBy,
	}
}

// nanos converts a timestamp to int64 for canonical JSON, which
// forbids floats. The zero time maps to 0.
func nanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
