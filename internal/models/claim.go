package models

import "time"

// TimeLayout is the canonical submission-timestamp rendering: ISO-8601 at
// second precision with no fractional seconds and no zone offset.
const TimeLayout = "2006-01-02T15:04:05"

// NullSentinel marks an absent patient_id or denial_reason. Absence is a
// distinguishable string compared by equality, never a native nil.
const NullSentinel = "null"

// ClaimStatus is the normalized claim state.
type ClaimStatus string

const (
	StatusApproved ClaimStatus = "approved"
	StatusDenied   ClaimStatus = "denied"
)

// SourceSystem identifies which raw schema produced a claim.
type SourceSystem string

const (
	SourceAlpha SourceSystem = "alpha"
	SourceBeta  SourceSystem = "beta"
)

// Claim is the canonical record both source schemas normalize into.
// Records are immutable once built; classifier verdicts are computed
// per run and never stored back onto the record.
type Claim struct {
	ClaimID       string       `json:"claim_id"`
	PatientID     string       `json:"patient_id"`
	ProcedureCode string       `json:"procedure_code"`
	DenialReason  string       `json:"denial_reason"`
	Status        ClaimStatus  `json:"status"`
	SubmittedAt   time.Time    `json:"submitted_at"`
	SourceSystem  SourceSystem `json:"source_system"`
}

// ResubmissionCandidate is one row of the resubmission output file.
// RecommendedChanges is a placeholder for a future enrichment step and is
// always empty.
type ResubmissionCandidate struct {
	ClaimID            string       `json:"claim_id"`
	ResubmissionReason string       `json:"resubmission_reason"`
	SourceSystem       SourceSystem `json:"source_system"`
	RecommendedChanges string       `json:"recommended_changes"`
}

// FailedRecord is one row of the failed-records output file.
type FailedRecord struct {
	ClaimID      string       `json:"claim_id"`
	DenialReason string       `json:"denial_reason"`
	SourceSystem SourceSystem `json:"source_system"`
}
