package models

// RunMetrics holds the counters for one pipeline invocation. A fresh zero
// value is created per run and threaded through the call chain; it is never
// shared across runs.
//
// TotalApproved is carried in the output schema but left at zero: the
// upstream system defined the counter without ever populating it, and the
// output contract preserves that.
type RunMetrics struct {
	TotalClaims               int `json:"total_claims"`
	TotalClaimsAlphaCSV       int `json:"total_claims_alpha_csv"`
	TotalClaimsBetaJSON       int `json:"total_claims_beta_json"`
	TotalResubmissionEligible int `json:"total_resubmission_eligible"`
	TotalApproved             int `json:"total_approved"`
	TotalFailed               int `json:"total_failed"`
}
