package state

import (
	"github.com/veriflowhq/veriflow/internal/catalog"
	"github.com/veriflowhq/veriflow/internal/model"
	"github.com/veriflowhq/veriflow/internal/progress"
)

// GetResponse returns the response for a control, if any.
func (s *Store) GetResponse(controlID string) (model.ControlResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.snap.Responses[controlID]
	return r, ok
}

// GetEvidenceByControlID resolves a control's evidence via its
// response's EvidenceID. Returns false when the control is
// unanswered or not compliant.
func (s *Store) GetEvidenceByControlID(controlID string) (model.EvidenceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.snap.Responses[controlID]
	if !ok || r.EvidenceID == "" {
		return model.EvidenceRecord{}, false
	}
	ev, ok := s.snap.Evidence[r.EvidenceID]
	return ev, ok
}

// AllEvidence returns every live evidence record, including records
// retained for audit after their control was soft-deleted.
func (s *Store) AllEvidence() []model.EvidenceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EvidenceRecord, 0, len(s.snap.Evidence))
	for _, ev := range s.snap.Evidence {
		out = append(out, ev)
	}
	return out
}

// AllControls returns built-in controls plus active custom controls.
// Soft-deleted custom controls are excluded.
func (s *Store) AllControls() []model.Control {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.WithCustom(s.snap.CustomControls)
}

// GetControlsByDomain filters AllControls to one domain.
func (s *Store) GetControlsByDomain(domain string) []model.Control {
	return catalog.ByDomain(s.AllControls(), domain)
}

// Notifications returns the ledger, newest first.
func (s *Store) Notifications() []model.SyncNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SyncNotification, len(s.snap.Notifications))
	copy(out, s.snap.Notifications)
	return out
}

// FrameworkProgress computes completion against one framework.
func (s *Store) FrameworkProgress(frameworkID string) progress.FrameworkProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.Framework(s.snap, s.catalog.WithCustom(s.snap.CustomControls), frameworkID)
}

// AllFrameworkProgress computes completion for every mapped framework.
func (s *Store) AllFrameworkProgress() []progress.FrameworkProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.AllFrameworks(s.snap, s.catalog.WithCustom(s.snap.CustomControls))
}

// DomainProgress computes completion within one domain.
func (s *Store) DomainProgress(domain string) progress.DomainProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.Domain(s.snap, s.catalog.WithCustom(s.snap.CustomControls), domain)
}

// AllDomainProgress computes completion for every domain.
func (s *Store) AllDomainProgress() []progress.DomainProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.AllDomains(s.snap, s.catalog.WithCustom(s.snap.CustomControls))
}

// Stats computes catalog-wide statistics.
func (s *Store) Stats() progress.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.Overall(s.snap, s.catalog.WithCustom(s.snap.CustomControls))
}

// CriticalGaps returns the most severe unresolved gaps.
func (s *Store) CriticalGaps() []progress.Gap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.CriticalGaps(s.snap, s.catalog.WithCustom(s.snap.CustomControls))
}
