package state

import "github.com/google/uuid"

// IDGenerator mints identifiers for responses, evidence records,
// custom controls, and notifications. Implemented by UUIDv7Generator
// (production) and testutil.FixedIDs (tests).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, making ids
// sortable by creation time, which helps when eyeballing evidence
// trails.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID returns a fresh hyphenated UUIDv7 string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
