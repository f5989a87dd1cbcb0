package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/config"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/logger"
)

func main() {
	log := logger.New("retention")
	cfg, err := config.LoadRetention()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("retention job running",
		slog.String("upload_dir", cfg.UploadDir),
		slog.Duration("interval", cfg.Interval),
		slog.Duration("max_age", cfg.MaxAge),
	)

	// First sweep runs immediately on start.
	runOnce(log, cfg)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(log, cfg)
		}
	}
}

func runOnce(log *slog.Logger, cfg *config.Retention) {
	deleted, kept, err := sweep(cfg.UploadDir, time.Now().Add(-cfg.MaxAge))
	if err != nil {
		log.Warn("retention sweep failed (will retry on next interval)", slog.Any("err", err))
		return
	}

	if deleted > 0 {
		log.Info("retention sweep completed",
			slog.Int("deleted", deleted),
			slog.Int("kept", kept),
		)
	} else {
		log.Debug("retention sweep completed, no stale uploads found")
	}
}

// sweep deletes regular files in dir last modified before cutoff and
// returns the deleted and kept counts. Only the upload directory is ever
// swept; pipeline outputs are left alone.
func sweep(dir string, cutoff time.Time) (int, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	var deleted, kept int
	for _, e := range entries {
		if e.IsDir() {
			kept++
			continue
		}

		info, err := e.Info()
		if err != nil {
			return deleted, kept, err
		}
		if info.ModTime().After(cutoff) {
			kept++
			continue
		}

		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return deleted, kept, err
		}
		deleted++
	}

	return deleted, kept, nil
}
