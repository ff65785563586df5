package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_IsolatesMaps(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()

	r := c.Responses["AC-1"]
	r.Answer = AnswerNo
	c.Responses["AC-1"] = r
	delete(c.Evidence, "ev-1")

	assert.Equal(t, AnswerYes, s.Responses["AC-1"].Answer)
	assert.Contains(t, s.Evidence, "ev-1")
}

func TestClone_IsolatesNestedSlices(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()

	c.CustomControls[0].Mappings[0].ClauseID = "changed"
	ev := c.Evidence["ev-1"]
	ev.FileURLs[0] = "changed"
	c.Evidence["ev-1"] = ev

	assert.Equal(t, "CC9.2", s.CustomControls[0].Mappings[0].ClauseID)
	assert.Equal(t, "https://files/1", s.Evidence["ev-1"].FileURLs[0])
}

func TestClone_EmptySnapshot(t *testing.T) {
	c := NewSnapshot().Clone()
	require.NotNil(t, c.Responses)
	require.NotNil(t, c.Evidence)
	assert.Empty(t, c.CustomControls)
	assert.Empty(t, c.Notifications)
}

func TestPrependNotifications_NewestFirst(t *testing.T) {
	ledger := []SyncNotification{{ID: "old"}}
	ledger = PrependNotifications(ledger, SyncNotification{ID: "new-1"}, SyncNotification{ID: "new-2"})

	require.Len(t, ledger, 3)
	assert.Equal(t, "new-1", ledger[0].ID)
	assert.Equal(t, "new-2", ledger[1].ID)
	assert.Equal(t, "old", ledger[2].ID)
}

func TestPrependNotifications_TruncatesToCap(t *testing.T) {
	var ledger []SyncNotification
	for i := 0; i < MaxNotifications+10; i++ {
		ledger = PrependNotifications(ledger, SyncNotification{ID: fmt.Sprintf("n-%d", i)})
	}
	require.Len(t, ledger, MaxNotifications)
	// Most recent entry stays at the front.
	assert.Equal(t, fmt.Sprintf("n-%d", MaxNotifications+9), ledger[0].ID)
}

func TestAnswer_Compliant(t *testing.T) {
	assert.True(t, AnswerYes.Compliant())
	assert.True(t, AnswerNA.Compliant())
	assert.False(t, AnswerNo.Compliant())
	assert.False(t, AnswerPartial.Compliant())
	assert.False(t, AnswerUnset.Compliant())
}

func TestAnswer_Valid(t *testing.T) {
	for _, a := range []Answer{AnswerYes, AnswerNo, AnswerPartial, AnswerNA, AnswerUnset} {
		assert.True(t, a.Valid(), "answer %q", a)
	}
	assert.False(t, Answer("maybe").Valid())
	assert.False(t, Answer("").Valid())
}

func TestRiskLevel_Rank(t *testing.T) {
	assert.Greater(t, RiskCritical.Rank(), RiskHigh.Rank())
	assert.Greater(t, RiskHigh.Rank(), RiskMedium.Rank())
	assert.Greater(t, RiskMedium.Rank(), RiskLow.Rank())
	assert.Greater(t, RiskLow.Rank(), RiskLevel("bogus").Rank())
}
