package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/config"
)

func TestLoadAPIDefaults(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("API_MAX_UPLOAD_BYTES", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_RATE_LIMIT_BURST", "")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "uploads", cfg.UploadDir)
	require.Equal(t, "outputs", cfg.OutputDir)
	require.Equal(t, "0.0.0.0:8000", cfg.BindAddr)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	require.Equal(t, 5.0, cfg.RateLimitRPS)
	require.Equal(t, 10, cfg.RateLimitBurst)
	require.Equal(t, 1024, cfg.DedupeCapacity)
	require.Equal(t, time.Hour, cfg.DedupeTTL)
}

func TestLoadAPIOverrides(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "/srv/claims/in")
	t.Setenv("OUTPUT_DIR", "/srv/claims/out")
	t.Setenv("API_BIND_ADDR", ":9000")
	t.Setenv("API_MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "4")
	t.Setenv("API_DEDUPE_CAPACITY", "16")
	t.Setenv("API_DEDUPE_TTL", "30m")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "/srv/claims/in", cfg.UploadDir)
	require.Equal(t, "/srv/claims/out", cfg.OutputDir)
	require.Equal(t, ":9000", cfg.BindAddr)
	require.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	require.Equal(t, 2.5, cfg.RateLimitRPS)
	require.Equal(t, 4, cfg.RateLimitBurst)
	require.Equal(t, 16, cfg.DedupeCapacity)
	require.Equal(t, 30*time.Minute, cfg.DedupeTTL)
}

func TestLoadAPIRejectsNonPositiveLimit(t *testing.T) {
	t.Setenv("API_MAX_UPLOAD_BYTES", "-1")

	_, err := config.LoadAPI()
	require.Error(t, err)
	require.Contains(t, err.Error(), "API_MAX_UPLOAD_BYTES")
}

func TestLoadPipelineDefaults(t *testing.T) {
	t.Setenv("PIPELINE_ALPHA_FILE", "")
	t.Setenv("PIPELINE_BETA_FILE", "")
	t.Setenv("PIPELINE_OUTPUT_DIR", "")
	t.Setenv("PIPELINE_REFERENCE_DATE", "")

	cfg, err := config.LoadPipeline()
	require.NoError(t, err)

	require.Equal(t, "emr_alpha.csv", cfg.AlphaFile)
	require.Equal(t, "emr_beta.json", cfg.BetaFile)
	require.Equal(t, "outputs", cfg.OutputDir)
	require.Empty(t, cfg.ReferenceDate)
}

func TestLoadPipelineReferenceDate(t *testing.T) {
	t.Setenv("PIPELINE_REFERENCE_DATE", "2025-07-30")

	cfg, err := config.LoadPipeline()
	require.NoError(t, err)
	require.Equal(t, "2025-07-30", cfg.ReferenceDate)

	t.Setenv("PIPELINE_REFERENCE_DATE", "30/07/2025")
	_, err = config.LoadPipeline()
	require.Error(t, err)
	require.Contains(t, err.Error(), "PIPELINE_REFERENCE_DATE")
}

func TestLoadRetention(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "in")
	t.Setenv("OUTPUT_DIR", "out")
	t.Setenv("RETENTION_INTERVAL", "12h")
	t.Setenv("RETENTION_MAX_AGE", "36h")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)

	require.Equal(t, "in", cfg.UploadDir)
	require.Equal(t, "out", cfg.OutputDir)
	require.Equal(t, 12*time.Hour, cfg.Interval)
	require.Equal(t, 36*time.Hour, cfg.MaxAge)
}
