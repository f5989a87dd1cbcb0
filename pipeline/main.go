package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/config"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/ingest"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/logger"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/processing"
)

const version = "claim-pipeline v1.0.0"

var (
	alphaFile     string
	betaFile      string
	outDir        string
	referenceDate string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "claim-pipeline",
	Short: "Normalize EMR claim exports and classify denied claims for resubmission",
	Long: `claim-pipeline ingests one alpha CSV export and one beta JSON export,
normalizes both into the canonical claim schema, classifies denied claims
for automated resubmission, flags permanently failed claims, and writes
three JSON outputs plus run metrics.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.Flags().StringVar(&alphaFile, "alpha", "", "alpha CSV export path (default $PIPELINE_ALPHA_FILE or emr_alpha.csv)")
	rootCmd.Flags().StringVar(&betaFile, "beta", "", "beta JSON export path (default $PIPELINE_BETA_FILE or emr_beta.json)")
	rootCmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default $PIPELINE_OUTPUT_DIR or outputs)")
	rootCmd.Flags().StringVar(&referenceDate, "reference-date", "", "reference date YYYY-MM-DD (default: today UTC)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if verbose {
		os.Setenv("LOG_LEVEL", "debug")
	}
	log := logger.New("pipeline")

	cfg, err := config.LoadPipeline()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags override env defaults.
	if alphaFile != "" {
		cfg.AlphaFile = alphaFile
	}
	if betaFile != "" {
		cfg.BetaFile = betaFile
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if referenceDate != "" {
		cfg.ReferenceDate = referenceDate
	}

	refDate, err := resolveReferenceDate(cfg.ReferenceDate, time.Now().UTC())
	if err != nil {
		return err
	}

	return runPipeline(log, cfg, refDate)
}

// resolveReferenceDate parses the configured date, falling back to today's
// UTC date. The core pipeline never reads the clock itself; "today" is
// resolved exactly once here.
func resolveReferenceDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	refDate, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("reference date must be YYYY-MM-DD: %w", err)
	}
	return refDate, nil
}

func runPipeline(log *slog.Logger, cfg *config.Pipeline, referenceDate time.Time) error {
	runID := uuid.NewString()
	log = log.With(slog.String("run_id", runID))

	log.Info("pipeline run starting",
		slog.String("alpha_file", cfg.AlphaFile),
		slog.String("beta_file", cfg.BetaFile),
		slog.String("out_dir", cfg.OutputDir),
		slog.String("reference_date", referenceDate.Format("2006-01-02")),
	)

	rawAlpha, err := ingest.ReadAlphaCSV(cfg.AlphaFile)
	if err != nil {
		return fmt.Errorf("read alpha export: %w", err)
	}
	log.Debug("alpha export read", slog.Int("rows", len(rawAlpha)))

	rawBeta, err := ingest.ReadBetaJSON(cfg.BetaFile)
	if err != nil {
		return fmt.Errorf("read beta export: %w", err)
	}
	log.Debug("beta export read", slog.Int("rows", len(rawBeta)))

	res, err := processing.Run(rawAlpha, rawBeta, referenceDate)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := processing.WriteOutputs(cfg.OutputDir, res); err != nil {
		return err
	}

	log.Info("pipeline run completed",
		slog.Int("total_claims", res.Metrics.TotalClaims),
		slog.Int("alpha_claims", res.Metrics.TotalClaimsAlphaCSV),
		slog.Int("beta_claims", res.Metrics.TotalClaimsBetaJSON),
		slog.Int("resubmission_eligible", res.Metrics.TotalResubmissionEligible),
		slog.Int("failed", res.Metrics.TotalFailed),
	)
	return nil
}
