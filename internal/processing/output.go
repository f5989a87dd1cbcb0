package processing

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/fileio"
)

// Fixed output file names inside the output directory.
const (
	CandidatesFile = "resubmission_candidates.json"
	FailedFile     = "failed_records.json"
	MetricsFile    = "claims_metrics.json"
)

// WriteOutputs materializes the three result files in dir. Each file is
// written atomically, so an I/O failure mid-run never leaves a partial
// file that looks complete.
func WriteOutputs(dir string, res *Result) error {
	if err := writeJSONFile(filepath.Join(dir, CandidatesFile), res.Candidates); err != nil {
		return fmt.Errorf("write resubmission candidates: %w", err)
	}
	if err := writeJSONFile(filepath.Join(dir, FailedFile), res.Failed); err != nil {
		return fmt.Errorf("write failed records: %w", err)
	}
	if err := writeJSONFile(filepath.Join(dir, MetricsFile), res.Metrics); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func writeJSONFile(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return fileio.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
