package processing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/models"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/processing"
)

var referenceDate = time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC)

// eligibleClaim builds a claim that passes all four eligibility gates:
// denied, patient present, submitted 10 days before the reference date,
// with a known retryable reason.
func eligibleClaim() models.Claim {
	return models.Claim{
		ClaimID:       "A1",
		PatientID:     "P1",
		ProcedureCode: "99213",
		DenialReason:  "Missing Modifier",
		Status:        models.StatusDenied,
		SubmittedAt:   referenceDate.AddDate(0, 0, -10),
		SourceSystem:  models.SourceAlpha,
	}
}

func TestResubmissionEligible(t *testing.T) {
	require.True(t, processing.ResubmissionEligible(eligibleClaim(), referenceDate))
}

func TestResubmissionEligibleEachGateIsMandatory(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Claim)
	}{
		{name: "approved status", mutate: func(c *models.Claim) { c.Status = models.StatusApproved }},
		{name: "absent patient", mutate: func(c *models.Claim) { c.PatientID = models.NullSentinel }},
		{name: "too recent", mutate: func(c *models.Claim) { c.SubmittedAt = referenceDate.AddDate(0, 0, -3) }},
		{name: "unknown reason", mutate: func(c *models.Claim) { c.DenialReason = "Duplicate claim" }},
		{name: "non-retryable reason", mutate: func(c *models.Claim) { c.DenialReason = "Authorization Expired" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := eligibleClaim()
			tt.mutate(&c)
			require.False(t, processing.ResubmissionEligible(c, referenceDate))
		})
	}
}

func TestResubmissionEligibleSevenDayBoundary(t *testing.T) {
	c := eligibleClaim()
	c.DenialReason = "Prior Auth Required"

	c.SubmittedAt = referenceDate.AddDate(0, 0, -8)
	require.True(t, processing.ResubmissionEligible(c, referenceDate), "8 days elapsed")

	c.SubmittedAt = referenceDate.AddDate(0, 0, -7)
	require.False(t, processing.ResubmissionEligible(c, referenceDate), "exactly 7 days is not enough")
}

func TestResubmissionEligibleIgnoresTimeOfDay(t *testing.T) {
	// Day arithmetic runs on calendar dates: a claim submitted late in the
	// evening 8 days ago still counts as 8 full days.
	c := eligibleClaim()
	c.SubmittedAt = time.Date(2025, 7, 22, 23, 59, 59, 0, time.UTC)
	require.True(t, processing.ResubmissionEligible(c, referenceDate))
}

func TestResubmissionEligibleReasonTable(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{reason: "missing modifier", want: true},
		{reason: "Missing Modifier", want: true},
		{reason: "  incorrect npi  ", want: true},
		{reason: "prior auth required", want: true},
		{reason: "incorrect procedure", want: true},
		{reason: "form incomplete", want: true},
		{reason: "not billable", want: true},
		{reason: models.NullSentinel, want: true}, // absent reason is ambiguous-but-retryable
		{reason: "missing modifiers", want: false},
		{reason: "modifier", want: false}, // no substring matching
		{reason: "authorization expired", want: false},
		{reason: "incorrect provider type", want: false},
		{reason: "", want: false},
	}

	for _, tt := range tests {
		t.Run("reason "+tt.reason, func(t *testing.T) {
			c := eligibleClaim()
			c.DenialReason = tt.reason
			require.Equal(t, tt.want, processing.ResubmissionEligible(c, referenceDate))
		})
	}
}

func TestPermanentlyFailed(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{reason: "Authorization Expired", want: true},
		{reason: "authorization expired", want: true},
		{reason: "Incorrect provider type", want: true},
		{reason: "Missing modifier", want: false},
		{reason: models.NullSentinel, want: false},
		{reason: "", want: false},
	}

	for _, tt := range tests {
		t.Run("reason "+tt.reason, func(t *testing.T) {
			c := eligibleClaim()
			c.DenialReason = tt.reason
			require.Equal(t, tt.want, processing.PermanentlyFailed(c))
		})
	}
}

func TestPermanentlyFailedIgnoresStatusPatientAndDate(t *testing.T) {
	c := eligibleClaim()
	c.Status = models.StatusApproved
	c.PatientID = models.NullSentinel
	c.SubmittedAt = referenceDate
	c.DenialReason = "Authorization Expired"
	require.True(t, processing.PermanentlyFailed(c))
}
