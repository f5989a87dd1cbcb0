package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/config"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/logger"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/ratelimit"
	"github.com/jaysonmulwa/claim-resubmission-ingestion-pipeline/internal/uploads"
)

// allowedExtensions are the only upload types the pipeline can ingest.
var allowedExtensions = map[string]struct{}{
	".csv":  {},
	".json": {},
}

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.Error("init upload store", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:     log,
		cfg:     cfg,
		store:   store,
		digests: uploads.NewDigestCache(cfg.DedupeCapacity, cfg.DedupeTTL),
		limiter: ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Post("/upload", srv.handleUpload)
	r.Get("/uploads", srv.handleListUploads)
	r.Get("/outputs", srv.handleListOutputs)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr),
			slog.String("upload_dir", cfg.UploadDir),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log     *slog.Logger
	cfg     *config.API
	store   *uploads.Store
	digests *uploads.DigestCache
	limiter *ratelimit.Limiter
}

type errorResponse struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	Message          string `json:"message"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	ContentType      string `json:"content_type"`
	FilePath         string `json:"file_path"`
	Duplicate        bool   `json:"duplicate"`
}

type listResponse struct {
	Files []uploads.FileInfo `json:"files"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	// Multipart framing adds overhead on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "only .csv and .json files are accepted"})
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read upload: " + err.Error()})
		return
	}
	if int64(len(content)) > s.cfg.MaxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file too large"})
		return
	}

	duplicate := s.digests.Seen(uploads.Digest(content))

	name, path, err := s.store.Save(header.Filename, bytes.NewReader(content))
	if err != nil {
		s.log.Error("save upload", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "save upload failed"})
		return
	}

	s.log.Info("file uploaded",
		slog.String("filename", name),
		slog.Int("size", len(content)),
		slog.Bool("duplicate", duplicate),
	)

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:          "file uploaded successfully",
		Filename:         name,
		OriginalFilename: header.Filename,
		FileSize:         int64(len(content)),
		ContentType:      header.Header.Get("Content-Type"),
		FilePath:         path,
		Duplicate:        duplicate,
	})
}

func (s *server) handleListUploads(w http.ResponseWriter, _ *http.Request) {
	s.listDir(w, s.store.Dir())
}

func (s *server) handleListOutputs(w http.ResponseWriter, _ *http.Request) {
	s.listDir(w, s.cfg.OutputDir)
}

func (s *server) listDir(w http.ResponseWriter, dir string) {
	files, err := uploads.List(dir)
	if err != nil {
		s.log.Error("list dir", slog.String("dir", dir), slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Files: files})
}

// clientKey buckets rate limiting by client IP. RealIP middleware has
// already unwrapped proxy headers into RemoteAddr.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
