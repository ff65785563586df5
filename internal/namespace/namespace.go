// Package namespace derives per-organization storage keys and migrates
// legacy unscoped data into the scoped namespace.
//
// Before multi-tenancy, state lived under fixed unscoped keys. Those
// keys are retained read-only as a migration source; Migrate copies
// them into the organization's namespace exactly once and never
// deletes the originals, so the operation is safely retryable.
package namespace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/veriflowhq/veriflow/internal/kv"
)

// Legacy unscoped keys from the pre-multi-tenant layout.
// Read-only: nothing in this package or its callers writes them.
const (
	LegacyResponses      = "compliance_responses"
	LegacyEvidence       = "compliance_evidence"
	LegacyCustomControls = "custom_controls"
	LegacyNotifications  = "sync_notifications"
	LegacyLastSynced     = "last_synced"
)

// KeySet is the fixed set of storage keys for one organization.
type KeySet struct {
	Responses      string
	Evidence       string
	CustomControls string
	Notifications  string
	LastSynced     string
}

// Keys derives the scoped key set for an organization. The derivation
// is deterministic: the same orgID always yields the same keys, and
// distinct orgIDs never collide with each other or with legacy keys.
func Keys(orgID string) KeySet {
	prefix := Prefix(orgID)
	return KeySet{
		Responses:      prefix + "responses",
		Evidence:       prefix + "evidence",
		CustomControls: prefix + "custom_controls",
		Notifications:  prefix + "notifications",
		LastSynced:     prefix + "last_synced",
	}
}

// scopeRoot prefixes every organization namespace.
const scopeRoot = "org/"

// Prefix returns the key prefix for an organization's namespace.
func Prefix(orgID string) string {
	return scopeRoot + orgID + "/"
}

// Organizations lists the organization ids with scoped data in the
// store, sorted. Legacy unscoped keys and other process-wide keys are
// outside the scope root and never appear.
func Organizations(ctx context.Context, store kv.Store) ([]string, error) {
	keys, err := store.Keys(ctx, scopeRoot)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	seen := make(map[string]bool)
	var out []string
	for _, k := range keys {
		id, _, ok := strings.Cut(strings.TrimPrefix(k, scopeRoot), "/")
		if !ok || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// migrationPairs returns (legacy, scoped) key pairs in a fixed order.
func migrationPairs(ks KeySet) [][2]string {
	return [][2]string{
		{LegacyResponses, ks.Responses},
		{LegacyEvidence, ks.Evidence},
		{LegacyCustomControls, ks.CustomControls},
		{LegacyNotifications, ks.Notifications},
		{LegacyLastSynced, ks.LastSynced},
	}
}

// MigrationResult reports which scoped keys received legacy data.
type MigrationResult struct {
	MigratedKeys []string `json:"migrated_keys"`
}

// Manager performs namespace migration over a kv.Store.
type Manager struct {
	store  kv.Store
	logger *slog.Logger
}

// NewManager creates a Manager. A nil logger uses slog.Default.
func NewManager(store kv.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// NeedsMigration reports whether the organization's scoped keys are
// all absent while at least one legacy key holds data.
//
// Read errors count as "absent": a corrupted value is never a reason
// to block, and Migrate itself skips unreadable sources.
func (m *Manager) NeedsMigration(ctx context.Context, orgID string) bool {
	ks := Keys(orgID)
	for _, pair := range migrationPairs(ks) {
		if m.present(ctx, pair[1]) {
			return false
		}
	}
	for _, pair := range migrationPairs(ks) {
		if m.present(ctx, pair[0]) {
			return true
		}
	}
	return false
}

// Migrate copies legacy unscoped data into the organization's scoped
// keys.
//
// Idempotent: a scoped key that already holds data is skipped, so a
// repeat call is a no-op and concurrent attempts cannot corrupt state.
// Non-destructive: legacy keys are never deleted.
func (m *Manager) Migrate(ctx context.Context, orgID string) (MigrationResult, error) {
	ks := Keys(orgID)
	var result MigrationResult
	for _, pair := range migrationPairs(ks) {
		legacy, scoped := pair[0], pair[1]
		if m.present(ctx, scoped) {
			continue // already migrated
		}
		value, err := m.store.Get(ctx, legacy)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			m.logger.Warn("skipping unreadable legacy key",
				"key", legacy, "error", err)
			continue
		}
		if err := m.store.Put(ctx, scoped, value); err != nil {
			return result, fmt.Errorf("migrate %s: %w", scoped, err)
		}
		result.MigratedKeys = append(result.MigratedKeys, scoped)
	}
	if len(result.MigratedKeys) > 0 {
		m.logger.Info("migrated legacy compliance data",
			"org", orgID, "keys", len(result.MigratedKeys))
	}
	return result, nil
}

// present reports whether key holds a readable value.
func (m *Manager) present(ctx context.Context, key string) bool {
	v, err := m.store.Get(ctx, key)
	return err == nil && len(v) > 0
}
