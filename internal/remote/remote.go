// Package remote defines the optional remote store collaborator.
//
// The remote may be offline, unconfigured, or unauthenticated; every
// call is best-effort. The state store treats "no response yet" and
// "failure" identically - local state is already durable by the time
// a remote call is issued, so failures are logged and never surfaced
// to the original caller.
//
// The absent-collaborator case is modeled as the Disabled variant
// rather than nil checks scattered through mutation logic.
package remote

import (
	"context"
	"errors"

	"github.com/veriflowhq/veriflow/internal/model"
)

// ErrDisabled is returned by Disabled.FetchSnapshot. Write-side
// calls on Disabled succeed as no-ops; only fetching reports that
// there is nothing to fetch.
var ErrDisabled = errors.New("remote sync disabled")

// Syncer is the outbound interface to the remote compliance store.
//
// Implementations own their timeout policy; callers pass a context
// and otherwise do not wait on remote outcomes.
type Syncer interface {
	SaveResponse(ctx context.Context, r model.ControlResponse) error
	SaveCustomControl(ctx context.Context, c model.CustomControl) error
	DeleteCustomControl(ctx context.Context, id string) error
	CreateNotification(ctx context.Context, n model.SyncNotification) error

	// FetchSnapshot retrieves the remote state for reconciliation.
	FetchSnapshot(ctx context.Context) (model.Snapshot, error)
}

// Disabled is the local-only variant of Remote. All writes succeed
// as no-ops.
type Disabled struct{}

var _ Syncer = Disabled{}

func (Disabled) SaveResponse(context.Context, model.ControlResponse) error    { return nil }
func (Disabled) SaveCustomControl(context.Context, model.CustomControl) error { return nil }
func (Disabled) DeleteCustomControl(context.Context, string) error            { return nil }
func (Disabled) CreateNotification(context.Context, model.SyncNotification) error {
	return nil
}

func (Disabled) FetchSnapshot(context.Context) (model.Snapshot, error) {
	return model.Snapshot{}, ErrDisabled
}
