package model

import "time"

// Answer is a compliance response to a single control.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerNo      Answer = "no"
	AnswerPartial Answer = "partial"
	AnswerNA      Answer = "na"
	AnswerUnset   Answer = "unset"
)

// ValidAnswers defines the allowed answer values.
var ValidAnswers = map[Answer]bool{
	AnswerYes:     true,
	AnswerNo:      true,
	AnswerPartial: true,
	AnswerNA:      true,
	AnswerUnset:   true,
}

// Valid reports whether a is one of the allowed answer values.
func (a Answer) Valid() bool {
	return ValidAnswers[a]
}

// Compliant reports whether the answer counts toward compliance
// percentages. Both "yes" and "na" are treated as satisfied.
func (a Answer) Compliant() bool {
	return a == AnswerYes || a == AnswerNA
}

// EvidenceStatus is the review state of an evidence record.
type EvidenceStatus string

const (
	EvidenceDraft  EvidenceStatus = "draft"
	EvidenceReview EvidenceStatus = "review"
	EvidenceFinal  EvidenceStatus = "final"
)

// RiskLevel is the severity assigned to a control definition.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank returns a sortable severity rank. Higher is more severe.
// Unknown levels rank below low so corrupt data sorts last, not first.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// FrameworkMapping associates a control with a clause in an external
// compliance framework (e.g. SOC 2 CC6.1, ISO 27001 A.5.15).
//
// CustomControlID is empty on built-in control mappings. For custom
// controls it is back-filled with the parent control's id during
// AddCustomControl, before the control becomes observable.
type FrameworkMapping struct {
	FrameworkID     string `json:"framework_id"`
	ClauseID        string `json:"clause_id"`
	ClauseTitle     string `json:"clause_title"`
	CustomControlID string `json:"custom_control_id,omitempty"`
}

// Control is the unified view of a control definition, built-in or
// custom. The state store and progress calculators operate on this
// view and never distinguish the two beyond the Custom flag.
type Control struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Domain      string             `json:"domain"`
	Risk        RiskLevel          `json:"risk"`
	Mappings    []FrameworkMapping `json:"mappings,omitempty"`
	Custom      bool               `json:"custom,omitempty"`
}

// ControlResponse is one organization's answer to a control.
// Keyed by ControlID in Snapshot.Responses; at most one per control.
type ControlResponse struct {
	ID              string    `json:"id"`         // Stable across updates
	ControlID       string    `json:"control_id"` // Built-in or custom control
	Answer          Answer    `json:"answer"`
	EvidenceID      string    `json:"evidence_id,omitempty"` // Set iff Answer == yes
	RemediationPlan string    `json:"remediation_plan,omitempty"`
	AnsweredAt      time.Time `json:"answered_at"` // Set once, never changed
	UpdatedAt       time.Time `json:"updated_at"`  // Strictly monotonic per control
	AnsweredBy      string    `json:"answered_by,omitempty"`
}

// EvidenceRecord is the provenance record created when a response
// becomes compliant. Destroyed (removed from the live evidence map)
// when the answer moves away from yes; durable audit trails are the
// remote store's concern, not this core's.
type EvidenceRecord struct {
	ID                string         `json:"id"`
	ControlResponseID string         `json:"control_response_id"`
	ControlID         string         `json:"control_id"`
	Notes             string         `json:"notes,omitempty"`
	Status            EvidenceStatus `json:"status"`
	FileURLs          []string       `json:"file_urls,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	ReviewedBy        string         `json:"reviewed_by,omitempty"`
	ApprovedAt        time.Time      `json:"approved_at,omitzero"`
}

// CustomControl is an organization-authored control definition.
// Soft-deleted via IsActive: never physically removed, so historical
// responses and evidence can still resolve the id.
type CustomControl struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Domain      string             `json:"domain"`
	Risk        RiskLevel          `json:"risk"`
	Mappings    []FrameworkMapping `json:"mappings,omitempty"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Control converts a custom control to the unified Control view.
func (c CustomControl) Control() Control {
	return Control{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Domain:      c.Domain,
		Risk:        c.Risk,
		Mappings:    cloneMappings(c.Mappings),
		Custom:      true,
	}
}

// SyncNotification records that a compliant answer satisfied one
// framework-clause mapping. Purely informational, never authoritative.
type SyncNotification struct {
	ID          string    `json:"id"`
	ControlID   string    `json:"control_id"`
	FrameworkID string    `json:"framework_id"`
	ClauseID    string    `json:"clause_id"`
	ClauseTitle string    `json:"clause_title,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
