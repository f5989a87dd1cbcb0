package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Common contains the directories shared by the upload API and the
// retention janitor.
type Common struct {
	UploadDir string
	OutputDir string
}

// API describes HTTP-layer configuration for the upload service.
type API struct {
	Common
	BindAddr       string
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	DedupeCapacity int
	DedupeTTL      time.Duration
}

// Pipeline holds file locations and the reference date for one batch run.
type Pipeline struct {
	AlphaFile     string
	BetaFile      string
	OutputDir     string
	ReferenceDate string // YYYY-MM-DD; empty means the caller resolves today (UTC)
}

// Retention configures the upload-directory cleanup loop.
type Retention struct {
	Common
	Interval time.Duration
	MaxAge   time.Duration
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common: Common{
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			OutputDir: getEnv("OUTPUT_DIR", "outputs"),
		},
		BindAddr:       getEnv("API_BIND_ADDR", "0.0.0.0:8000"),
		MaxUploadBytes: getInt64("API_MAX_UPLOAD_BYTES", 10<<20),
		RateLimitRPS:   getFloat("API_RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("API_RATE_LIMIT_BURST", 10),
		DedupeCapacity: getInt("API_DEDUPE_CAPACITY", 1024),
		DedupeTTL:      getDuration("API_DEDUPE_TTL", "1h"),
	}

	if c.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("API_MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT_BURST must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("API_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadPipeline builds a Pipeline config from environment variables. CLI
// flags may override individual fields afterwards.
func LoadPipeline() (*Pipeline, error) {
	c := &Pipeline{
		AlphaFile:     getEnv("PIPELINE_ALPHA_FILE", "emr_alpha.csv"),
		BetaFile:      getEnv("PIPELINE_BETA_FILE", "emr_beta.json"),
		OutputDir:     getEnv("PIPELINE_OUTPUT_DIR", "outputs"),
		ReferenceDate: getEnv("PIPELINE_REFERENCE_DATE", ""),
	}

	if c.AlphaFile == "" {
		return nil, fmt.Errorf("PIPELINE_ALPHA_FILE cannot be empty")
	}
	if c.BetaFile == "" {
		return nil, fmt.Errorf("PIPELINE_BETA_FILE cannot be empty")
	}
	if c.OutputDir == "" {
		return nil, fmt.Errorf("PIPELINE_OUTPUT_DIR cannot be empty")
	}
	if c.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.ReferenceDate); err != nil {
			return nil, fmt.Errorf("PIPELINE_REFERENCE_DATE must be YYYY-MM-DD: %w", err)
		}
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common: Common{
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			OutputDir: getEnv("OUTPUT_DIR", "outputs"),
		},
		Interval: getDuration("RETENTION_INTERVAL", "24h"),
		MaxAge:   getDuration("RETENTION_MAX_AGE", "168h"),
	}

	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_INTERVAL must be positive")
	}
	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
