package state

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/veriflowhq/veriflow/internal/catalog"
	"github.com/veriflowhq/veriflow/internal/kv"
	"github.com/veriflowhq/veriflow/internal/model"
	"github.com/veriflowhq/veriflow/internal/namespace"
	"github.com/veriflowhq/veriflow/internal/remote"
)

// uiStateKey is process-wide UI configuration, deliberately unscoped:
// dark mode follows the installation, not the organization.
const uiStateKey = "ui/state"

type uiState struct {
	DarkMode bool `json:"dark_mode"`
}

// Observer receives a deep copy of the snapshot after every mutation.
type Observer func(model.Snapshot)

// Store owns one organization's compliance state.
//
// Concurrency model: single logical owner. The internal mutex guards
// against the asynchronous remote-write path and observer plumbing,
// not against concurrent mutators, which the design does not expect
// within one process.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	catalog   *catalog.Catalog
	manager   *namespace.Manager
	syncer    remote.Syncer
	clock     Clock
	ids       IDGenerator
	logger    *slog.Logger
	actor     string
	orgID     string
	keys      namespace.KeySet
	snap      model.Snapshot
	ui        uiState
	observers []Observer

	// wg tracks in-flight remote writes so tests (and shutdown) can
	// wait for them. There is no cancellation: a late completion is
	// simply logged.
	wg sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithRemote attaches a remote sync collaborator. Default is
// remote.Disabled (local-only mode).
func WithRemote(s remote.Syncer) Option {
	return func(st *Store) { st.syncer = s }
}

// WithClock overrides the mutation clock. Used by tests.
func WithClock(c Clock) Option {
	return func(st *Store) { st.clock = c }
}

// WithIDGenerator overrides id generation. Used by tests.
func WithIDGenerator(g IDGenerator) Option {
	return func(st *Store) { st.ids = g }
}

// WithLogger sets the logger. Default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithActor sets the identity recorded in AnsweredBy.
func WithActor(actor string) Option {
	return func(st *Store) { st.actor = actor }
}

// New creates a Store for the given organization, migrating legacy
// unscoped data if present and loading the scoped state.
//
// Loading never fails on unreadable data: a corrupted blob is replaced
// with an empty default so mutations always have a valid base. The
// only error paths are catalog absence and nil collaborators, which
// are programming errors surfaced immediately.
func New(store kv.Store, cat *catalog.Catalog, orgID string, opts ...Option) (*Store, error) {
	if store == nil || cat == nil {
		return nil, errors.New("state: kv store and catalog are required")
	}
	s := &Store{
		kv:      store,
		catalog: cat,
		syncer:  remote.Disabled{},
		clock:   NewSystemClock(),
		ids:     UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.manager = namespace.NewManager(store, s.logger)

	ctx := context.Background()
	s.loadUIState(ctx)
	if err := s.switchOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	return s, nil
}

// SetOrganization switches the active organization. All scoped state
// is reloaded from storage; nothing from the previous organization
// remains visible afterward.
func (s *Store) SetOrganization(ctx context.Context, orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.switchOrganization(ctx, orgID); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// switchOrganization migrates and loads under s.mu (or during New,
// before the store escapes).
func (s *Store) switchOrganization(ctx context.Context, orgID string) error {
	s.orgID = orgID
	s.keys = namespace.Keys(orgID)
	if s.manager.NeedsMigration(ctx, orgID) {
		if _, err := s.manager.Migrate(ctx, orgID); err != nil {
			// Migration is retryable; an interrupted run leaves legacy
			// data intact and partially populated scoped keys that the
			// next attempt skips.
			s.logger.Warn("namespace migration incomplete", "org", orgID, "error", err)
		}
	}
	s.snap = s.load(ctx)
	return nil
}

// OrgID returns the active organization id.
func (s *Store) OrgID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orgID
}

// Subscribe registers an observer called with a snapshot copy after
// every mutation. Observers run synchronously on the mutating
// goroutine; keep them cheap.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Flush waits for all in-flight remote writes to settle. Tests use
// this; production shutdown may skip it since remote writes are
// best-effort by design.
func (s *Store) Flush() {
	s.wg.Wait()
}

// load reads all scoped blobs, substituting empty defaults for
// missing or unreadable values.
func (s *Store) load(ctx context.Context) model.Snapshot {
	snap := model.NewSnapshot()
	loadJSON(ctx, s, s.keys.Responses, &snap.Responses)
	loadJSON(ctx, s, s.keys.Evidence, &snap.Evidence)
	loadJSON(ctx, s, s.keys.CustomControls, &snap.CustomControls)
	loadJSON(ctx, s, s.keys.Notifications, &snap.Notifications)
	var lastSynced time.Time
	loadJSON(ctx, s, s.keys.LastSynced, &lastSynced)
	snap.LastSynced = lastSynced
	if snap.Responses == nil {
		snap.Responses = make(map[string]model.ControlResponse)
	}
	if snap.Evidence == nil {
		snap.Evidence = make(map[string]model.EvidenceRecord)
	}
	return snap
}

// loadJSON fills out from the blob at key, leaving out untouched on
// any failure. Corruption downgrades to a warning, never an error.
func loadJSON[T any](ctx context.Context, s *Store, key string, out *T) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("unreadable stored value, using empty default", "key", key, "error", err)
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("corrupted stored value, using empty default", "key", key, "error", err)
		var zero T
		*out = zero
	}
}

// persist writes the full snapshot to the scoped keys. Write failures
// are logged, not returned: owned in-memory state has already mutated
// and remains the source of truth.
func (s *Store) persist(ctx context.Context) {
	s.putJSON(ctx, s.keys.Responses, s.snap.Responses)
	s.putJSON(ctx, s.keys.Evidence, s.snap.Evidence)
	s.putJSON(ctx, s.keys.CustomControls, s.snap.CustomControls)
	s.putJSON(ctx, s.keys.Notifications, s.snap.Notifications)
	if !s.snap.LastSynced.IsZero() {
		s.putJSON(ctx, s.keys.LastSynced, s.snap.LastSynced)
	}
}

func (s *Store) putJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal for persistence failed", "key", key, "error", err)
		return
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		s.logger.Warn("local persistence failed", "key", key, "error", err)
	}
}

// notifyLocked invokes observers with a snapshot copy. Caller holds
// s.mu.
func (s *Store) notifyLocked() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.snap.Clone()
	for _, fn := range s.observers {
		fn(snap)
	}
}

// push issues a best-effort remote write on its own goroutine. The
// caller's mutation has already persisted locally; failure here is
// logged and otherwise invisible.
func (s *Store) push(op string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(context.Background()); err != nil {
			s.logger.Warn("remote write failed", "op", op, "error", err)
		}
	}()
}

// loadUIState reads process-wide UI configuration.
func (s *Store) loadUIState(ctx context.Context) {
	loadJSON(ctx, s, uiStateKey, &s.ui)
}

// DarkMode reports the process-wide dark mode flag.
func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui.DarkMode
}

// ToggleDarkMode flips and persists the dark mode flag. UI-state
// helper only; not part of the compliance invariants and not synced
// remotely.
func (s *Store) ToggleDarkMode(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.DarkMode = !s.ui.DarkMode
	s.putJSON(ctx, uiStateKey, s.ui)
}
