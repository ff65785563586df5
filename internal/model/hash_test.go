package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSnapshot()
	s.Responses["AC-1"] = ControlResponse{
		ID:         "resp-1",
		ControlID:  "AC-1",
		Answer:     AnswerYes,
		EvidenceID: "ev-1",
		AnsweredAt: now,
		UpdatedAt:  now,
		AnsweredBy: "auditor",
	}
	s.Evidence["ev-1"] = EvidenceRecord{
		ID:                "ev-1",
		ControlResponseID: "resp-1",
		ControlID:         "AC-1",
		Status:            EvidenceDraft,
		FileURLs:          []string{"https://files/1"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.CustomControls = []CustomControl{{
		ID:       "cc-1",
		Title:    "Vendor review",
		Domain:   "Risk Management",
		Risk:     RiskHigh,
		IsActive: true,
		Mappings: []FrameworkMapping{{
			FrameworkID:     "SOC2",
			ClauseID:        "CC9.2",
			CustomControlID: "cc-1",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.Notifications = []SyncNotification{{
		ID:          "note-1",
		ControlID:   "AC-1",
		FrameworkID: "SOC2",
		ClauseID:    "CC6.1",
		Message:     "satisfied",
		CreatedAt:   now,
	}}
	return s
}

func TestFingerprint_StableAcrossClones(t *testing.T) {
	s := sampleSnapshot()
	a, err := s.Fingerprint()
	require.NoError(t, err)
	b, err := s.Clone().Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	s := sampleSnapshot()
	before, err := s.Fingerprint()
	require.NoError(t, err)

	r := s.Responses["AC-1"]
	r.Answer = AnswerNo
	r.EvidenceID = ""
	s.Responses["AC-1"] = r

	after, err := s.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestFingerprint_IgnoresLastSynced(t *testing.T) {
	s := sampleSnapshot()
	before, err := s.Fingerprint()
	require.NoError(t, err)

	s.LastSynced = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	after, err := s.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFingerprint_EmptySnapshot(t *testing.T) {
	a, err := NewSnapshot().Fingerprint()
	require.NoError(t, err)
	b, err := NewSnapshot().Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestResponseFingerprint_DomainSeparated(t *testing.T) {
	r := ControlResponse{ID: "resp-1", ControlID: "AC-1", Answer: AnswerNo}
	rf, err := ResponseFingerprint(r)
	require.NoError(t, err)
	assert.Len(t, rf, 64) // hex SHA-256

	// Same logical content under a different domain must not collide.
	s := NewSnapshot()
	sf, err := s.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, rf, sf)
}
