package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/veriflowhq/veriflow/internal/model"
	"github.com/veriflowhq/veriflow/internal/reconcile"
	"github.com/veriflowhq/veriflow/internal/remote"
)

// ApplyRemote merges a remote snapshot into local state through the
// reconciliation engine, stamps LastSynced, and persists the result.
// Safe to call with the same snapshot repeatedly: the merge is
// idempotent, so a reconnect replaying an old snapshot cannot corrupt
// or regress local state.
//
// A merge that changes nothing (the common reconnect case) is detected
// by fingerprint comparison: only the LastSynced stamp is written, and
// observers are not invoked.
func (s *Store) ApplyRemote(ctx context.Context, snapshot model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, beforeErr := s.snap.Fingerprint()
	s.snap = reconcile.Merge(s.snap, snapshot)
	after, afterErr := s.snap.Fingerprint()
	s.snap.LastSynced = s.clock.Now()

	if beforeErr == nil && afterErr == nil && before == after {
		s.putJSON(ctx, s.keys.LastSynced, s.snap.LastSynced)
		return
	}
	if beforeErr != nil || afterErr != nil {
		s.logger.Warn("snapshot fingerprint failed, persisting unconditionally",
			"error", errors.Join(beforeErr, afterErr))
	}
	s.persist(ctx)
	s.notifyLocked()
}

// Pull fetches the remote snapshot and reconciles it into local
// state. A disabled remote is a quiet no-op; an unreachable remote is
// logged and local state stands.
func (s *Store) Pull(ctx context.Context) error {
	snapshot, err := s.syncer.FetchSnapshot(ctx)
	if errors.Is(err, remote.ErrDisabled) {
		return nil
	}
	if err != nil {
		s.logger.Warn("remote fetch failed, staying local", "error", err)
		return fmt.Errorf("pull: %w", err)
	}
	s.ApplyRemote(ctx, snapshot)
	return nil
}
