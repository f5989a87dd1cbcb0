package processing

import (
	"fmt"
	"time"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/ingest"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/models"
)

// Result is everything one pipeline run produces: the combined normalized
// batch, the two classified selections, and the run counters.
type Result struct {
	Claims     []models.Claim
	Candidates []models.ResubmissionCandidate
	Failed     []models.FailedRecord
	Metrics    models.RunMetrics
}

// Run executes one batch pass: normalize each source, concatenate
// alpha-then-beta preserving each batch's internal order, classify every
// claim, and tally the counters. A malformed row in either source fails
// the whole run. Candidate and failed slices are always non-nil so the
// output files serialize empty selections as [] rather than null.
func Run(rawAlpha, rawBeta []ingest.RawClaim, referenceDate time.Time) (*Result, error) {
	alpha, err := Normalize(rawAlpha, models.SourceAlpha)
	if err != nil {
		return nil, fmt.Errorf("normalize alpha batch: %w", err)
	}

	beta, err := Normalize(rawBeta, models.SourceBeta)
	if err != nil {
		return nil, fmt.Errorf("normalize beta batch: %w", err)
	}

	res := &Result{
		Claims:     append(alpha, beta...),
		Candidates: []models.ResubmissionCandidate{},
		Failed:     []models.FailedRecord{},
	}
	res.Metrics.TotalClaimsAlphaCSV = len(alpha)
	res.Metrics.TotalClaimsBetaJSON = len(beta)
	res.Metrics.TotalClaims = len(res.Claims)

	for _, c := range res.Claims {
		if ResubmissionEligible(c, referenceDate) {
			res.Candidates = append(res.Candidates, models.ResubmissionCandidate{
				ClaimID:            c.ClaimID,
				ResubmissionReason: c.DenialReason,
				SourceSystem:       c.SourceSystem,
				RecommendedChanges: "",
			})
			res.Metrics.TotalResubmissionEligible++
		}

		if PermanentlyFailed(c) {
			res.Failed = append(res.Failed, models.FailedRecord{
				ClaimID:      c.ClaimID,
				DenialReason: c.DenialReason,
				SourceSystem: c.SourceSystem,
			})
			res.Metrics.TotalFailed++
		}
	}

	return res, nil
}
