package processing

import (
	"strings"
	"time"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/models"
)

// retryableReasons are denial reasons known to clear after a corrected
// resubmission. Stored lower-cased; matched by exact equality.
var retryableReasons = map[string]struct{}{
	"missing modifier":    {},
	"incorrect npi":       {},
	"prior auth required": {},
}

// ambiguousRetryableReasons are reasons the classifier table treats as
// retryable without a known remediation. This is a fixed lookup, not
// inference; the "null" sentinel (absent reason) lands here too.
var ambiguousRetryableReasons = map[string]struct{}{
	"incorrect procedure": {},
	"form incomplete":     {},
	"not billable":        {},
	models.NullSentinel:   {},
}

// nonRetryableReasons can never clear on resubmission.
var nonRetryableReasons = map[string]struct{}{
	"authorization expired":   {},
	"incorrect provider type": {},
}

// ResubmissionEligible reports whether a claim is worth resubmitting
// automatically. All four gates must hold: the claim was denied, the
// patient is identified, more than seven full days have passed between
// submission and the reference date, and the denial reason sits in the
// retryable or ambiguous-retryable table. The reference date is supplied
// by the caller; nothing here reads the wall clock.
func ResubmissionEligible(c models.Claim, referenceDate time.Time) bool {
	if c.Status != models.StatusDenied {
		return false
	}
	if c.PatientID == models.NullSentinel {
		return false
	}
	if daysBetween(c.SubmittedAt, referenceDate) <= 7 {
		return false
	}

	reason := strings.ToLower(strings.TrimSpace(c.DenialReason))
	if _, ok := retryableReasons[reason]; ok {
		return true
	}
	_, ok := ambiguousRetryableReasons[reason]
	return ok
}

// PermanentlyFailed reports whether a claim's denial reason is
// non-retryable. It is evaluated against every claim regardless of
// status, surfacing data-quality problems even on approved records.
func PermanentlyFailed(c models.Claim) bool {
	_, ok := nonRetryableReasons[strings.ToLower(c.DenialReason)]
	return ok
}

// daysBetween counts whole calendar days from the submission date to the
// reference date, ignoring the time-of-day component of both.
func daysBetween(submitted, reference time.Time) int {
	s := time.Date(submitted.Year(), submitted.Month(), submitted.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	return int(r.Sub(s) / (24 * time.Hour))
}
