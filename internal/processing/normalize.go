package processing

import (
	"errors"
	"fmt"
	"time"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/ingest"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/models"
)

// ErrMalformedRecord marks a source row the normalizer cannot repair: a
// required field is structurally absent, or the submission timestamp is
// unparseable. One malformed row fails the whole run; a silently dropped
// claim would be an invisible correctness bug in this domain.
var ErrMalformedRecord = errors.New("malformed record")

// fieldAliases maps each canonical field name to the alpha vocabulary it
// also answers to; beta records already carry the canonical names.
var fieldAliases = map[string]string{
	"claim_id":       "id",
	"patient_id":     "member",
	"procedure_code": "code",
	"denial_reason":  "error_msg",
	"status":         "status",
	"submitted_at":   "date",
}

// submittedAtLayouts are tried in order against raw timestamps.
var submittedAtLayouts = []string{
	models.TimeLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize maps one raw batch into canonical claims, tagging every record
// with the supplied source. Row order is preserved, and running twice over
// the same batch yields identical output: nothing here reads the clock.
func Normalize(batch []ingest.RawClaim, source models.SourceSystem) ([]models.Claim, error) {
	claims := make([]models.Claim, 0, len(batch))
	for i, raw := range batch {
		c, err := normalizeRecord(raw, source)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		claims = append(claims, c)
	}
	return claims, nil
}

func normalizeRecord(raw ingest.RawClaim, source models.SourceSystem) (models.Claim, error) {
	claimID := rawField(raw, "claim_id")
	if claimID == "" {
		return models.Claim{}, fmt.Errorf("%w: claim_id is required", ErrMalformedRecord)
	}

	code := rawField(raw, "procedure_code")
	if code == "" {
		return models.Claim{}, fmt.Errorf("%w: procedure_code is required", ErrMalformedRecord)
	}

	submitted, err := parseSubmittedAt(rawField(raw, "submitted_at"))
	if err != nil {
		return models.Claim{}, err
	}

	return models.Claim{
		ClaimID:       claimID,
		PatientID:     orNullSentinel(rawField(raw, "patient_id")),
		ProcedureCode: code,
		DenialReason:  orNullSentinel(rawField(raw, "denial_reason")),
		Status:        coerceStatus(rawField(raw, "status")),
		SubmittedAt:   submitted,
		SourceSystem:  source,
	}, nil
}

// rawField reads a canonical field from a raw record, falling back to the
// alpha alias when the canonical name is absent or empty.
func rawField(raw ingest.RawClaim, canonical string) string {
	if v, ok := raw[canonical]; ok && v != "" {
		return v
	}
	return raw[fieldAliases[canonical]]
}

// orNullSentinel substitutes the literal "null" for absent values. The
// sentinel is a real string: downstream rules compare it by equality.
func orNullSentinel(v string) string {
	if v == "" {
		return models.NullSentinel
	}
	return v
}

// coerceStatus maps anything that is not exactly approved or denied to
// denied, so records with an ambiguous status stay in the denial pipeline
// instead of being dropped.
func coerceStatus(v string) models.ClaimStatus {
	switch models.ClaimStatus(v) {
	case models.StatusApproved:
		return models.StatusApproved
	case models.StatusDenied:
		return models.StatusDenied
	default:
		return models.StatusDenied
	}
}

// parseSubmittedAt parses a raw timestamp and truncates it to second
// precision. Offsets are dropped at rendering time: the canonical form is
// the wall-clock reading.
func parseSubmittedAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: submitted_at is required", ErrMalformedRecord)
	}

	for _, layout := range submittedAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Truncate(time.Second), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparseable submitted_at %q", ErrMalformedRecord, raw)
}
