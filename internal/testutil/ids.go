package testutil

import (
	"fmt"
	"sync"
)

// FixedIDs returns predetermined identifiers in order, enabling
// deterministic assertions on generated response and evidence ids.
//
// Thread-safe via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDs("resp-1", "ev-1", "note-1")
//	gen.NewID() // "resp-1"
//	gen.NewID() // "ev-1"
//
// Once the fixed ids are exhausted, sequential "id-N" values are
// returned so a test that creates more entities than it asserts on
// keeps working.
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// NewID returns the next predetermined id.
func (g *FixedIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.idx++
	if g.idx <= len(g.ids) {
		return g.ids[g.idx-1]
	}
	return fmt.Sprintf("id-%d", g.idx)
}

// SeqIDs generates "prefix-1", "prefix-2", ... sequentially.
type SeqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSeqIDs creates a sequential generator with the given prefix.
func NewSeqIDs(prefix string) *SeqIDs {
	return &SeqIDs{prefix: prefix}
}

// NewID returns the next sequential id.
func (g *SeqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
