package state

import (
	"context"
	"fmt"

	"github.com/veriflowhq/veriflow/internal/model"
)

// AnswerControl records an answer to a control and enforces the
// evidence-provenance invariants:
//
//   - A first answer creates the response with AnsweredAt set once;
//     subsequent answers update in place, preserving RemediationPlan.
//   - answer == yes mints a fresh evidence record (draft, empty) and
//     emits one notification per framework mapping on the control
//     definition. Re-answering yes replaces the evidence record with
//     a fresh one; the old id never leaks.
//   - answer != yes removes any prior evidence record from the live
//     map and clears the reference.
//
// State persists locally before the method returns; the remote write
// happens asynchronously and cannot fail the call.
func (s *Store) AnswerControl(ctx context.Context, controlID string, answer model.Answer) error {
	if !answer.Valid() {
		return &StateError{
			Code:      ErrCodeInvalidAnswer,
			Message:   fmt.Sprintf("answer %q not in allowed set", answer),
			ControlID: controlID,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.controlDefinitionLocked(controlID)
	if !ok {
		return errUnknownControl(controlID)
	}

	now := s.clock.Now()
	r, exists := s.snap.Responses[controlID]
	if !exists {
		r = model.ControlResponse{
			ID:         s.ids.NewID(),
			ControlID:  controlID,
			AnsweredAt: now,
		}
	}
	r.Answer = answer
	r.UpdatedAt = now
	r.AnsweredBy = s.actor

	// Any previous evidence is replaced or removed; either way the old
	// record leaves the live map first.
	if r.EvidenceID != "" {
		delete(s.snap.Evidence, r.EvidenceID)
		r.EvidenceID = ""
	}

	var created []model.SyncNotification
	if answer == model.AnswerYes {
		ev := model.EvidenceRecord{
			ID:                s.ids.NewID(),
			ControlResponseID: r.ID,
			ControlID:         controlID,
			Status:            model.EvidenceDraft,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		s.snap.Evidence[ev.ID] = ev
		r.EvidenceID = ev.ID

		for _, m := range ctrl.Mappings {
			created = append(created, model.SyncNotification{
				ID:          s.ids.NewID(),
				ControlID:   controlID,
				FrameworkID: m.FrameworkID,
				ClauseID:    m.ClauseID,
				ClauseTitle: m.ClauseTitle,
				Message:     fmt.Sprintf("%s satisfies %s %s", ctrl.Title, m.FrameworkID, m.ClauseID),
				CreatedAt:   now,
			})
		}
		if len(created) > 0 {
			s.snap.Notifications = model.PrependNotifications(s.snap.Notifications, created...)
		}
	}

	s.snap.Responses[controlID] = r
	s.persist(ctx)
	s.notifyLocked()

	pushed := r
	s.push("save_response", func(ctx context.Context) error {
		return s.syncer.SaveResponse(ctx, pushed)
	})
	for _, n := range created {
		n := n
		s.push("create_notification", func(ctx context.Context) error {
			return s.syncer.CreateNotification(ctx, n)
		})
	}
	return nil
}

// UpdateRemediation sets the remediation plan on an existing response.
// A control that has never been answered is a no-op, not an error.
func (s *Store) UpdateRemediation(ctx context.Context, controlID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.snap.Responses[controlID]
	if !exists {
		return nil
	}
	r.RemediationPlan = text
	r.UpdatedAt = s.clock.Now()
	r.AnsweredBy = s.actor
	s.snap.Responses[controlID] = r
	s.persist(ctx)
	s.notifyLocked()

	pushed := r
	s.push("save_response", func(ctx context.Context) error {
		return s.syncer.SaveResponse(ctx, pushed)
	})
	return nil
}

// AddCustomControl creates a custom control from def. The id, stamps,
// and IsActive flag are assigned here; def's values for those fields
// are ignored. Every framework mapping is back-filled with the new id
// before the control becomes observable, so the returned control (and
// anything observers see) always has fully-populated mappings.
func (s *Store) AddCustomControl(ctx context.Context, def model.CustomControl) (model.CustomControl, error) {
	if def.Title == "" || def.Domain == "" {
		return model.CustomControl{}, &StateError{
			Code:    ErrCodeInvalidControl,
			Message: "custom control requires title and domain",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	def.ID = s.ids.NewID()
	def.IsActive = true
	def.CreatedAt = now
	def.UpdatedAt = now
	// Copy the mappings so the stored control never aliases caller
	// memory, then back-fill the parent id.
	def.Mappings = append([]model.FrameworkMapping(nil), def.Mappings...)
	for i := range def.Mappings {
		def.Mappings[i].CustomControlID = def.ID
	}

	s.snap.CustomControls = append(s.snap.CustomControls, def)
	s.persist(ctx)
	s.notifyLocked()

	pushed := def
	s.push("save_custom_control", func(ctx context.Context) error {
		return s.syncer.SaveCustomControl(ctx, pushed)
	})
	return def, nil
}

// DeleteCustomControl soft-deletes a custom control: IsActive drops to
// false but the definition stays addressable for response history.
// The control's response (if any) is removed since the control is no
// longer answerable; its evidence record is retained for audit
// continuity.
func (s *Store) DeleteCustomControl(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, cc := range s.snap.CustomControls {
		if cc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errUnknownControl(id)
	}

	cc := s.snap.CustomControls[idx]
	cc.IsActive = false
	cc.UpdatedAt = s.clock.Now()
	s.snap.CustomControls[idx] = cc

	delete(s.snap.Responses, id)

	s.persist(ctx)
	s.notifyLocked()

	s.push("delete_custom_control", func(ctx context.Context) error {
		return s.syncer.DeleteCustomControl(ctx, id)
	})
	return nil
}

// ClearNotifications empties the notification ledger. UI-state helper;
// the ledger is informational and clearing it is not synced remotely.
func (s *Store) ClearNotifications(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Notifications = nil
	s.persist(ctx)
	s.notifyLocked()
}

// controlDefinitionLocked resolves a control id against the built-in
// catalog and active custom controls. Caller holds s.mu.
func (s *Store) controlDefinitionLocked(controlID string) (model.Control, bool) {
	if ctrl, ok := s.catalog.ByID(controlID); ok {
		return ctrl, true
	}
	for _, cc := range s.snap.CustomControls {
		if cc.ID == controlID && cc.IsActive {
			return cc.Control(), true
		}
	}
	return model.Control{}, false
}
