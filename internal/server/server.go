// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes post generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/blogsmith/internal/export"
	"github.com/pdiddy/blogsmith/internal/metrics"
	"github.com/pdiddy/blogsmith/internal/pipeline"
)

const maxBodyBytes = 64 << 10

// Runner produces the final post for one topic.
type Runner interface {
	Run(ctx context.Context, topic string) (string, error)
}

// PostRequest is the body of POST /v1/posts.
type PostRequest struct {
	Topic string `json:"topic"`
}

// PostResponse is the JSON reply to a successful generation.
type PostResponse struct {
	Topic     string `json:"topic"`
	FinalBlog string `json:"final_blog"`
}

// ErrorResponse is the JSON reply to a failed request. Stage is set when a
// pipeline stage aborted the run.
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// Server holds the handler dependencies. Use NewHandler to build one.
type Server struct {
	runner     Runner
	logger     *slog.Logger
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	runTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and failure logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics counts rejected requests on m and serves g at /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithRunTimeout bounds each generation. Zero means no limit beyond the
// client's own connection.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.runTimeout = d
	}
}

// NewHandler returns the HTTP handler serving posts, health and metrics.
func NewHandler(r Runner, opts ...Option) http.Handler {
	s := &Server{
		runner: r,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(s.logRequests)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.health)
	router.Post("/v1/posts", s.createPost)
	if s.gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return router
}

// ListenAndServe serves h on addr until ctx is done, then shuts down and
// waits up to ten seconds for in-flight requests.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var body PostRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	topic := strings.TrimSpace(body.Topic)
	if topic == "" {
		s.recordInvalid()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "topic is required"})
		return
	}

	rawFormat := r.URL.Query().Get("format")
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		s.recordInvalid()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	final, err := s.runner.Run(ctx, topic)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	if rawFormat == "" {
		writeJSON(w, http.StatusOK, PostResponse{Topic: topic, FinalBlog: final})
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(topic, format)))
	if err := export.Write(w, export.Document{Topic: topic, Body: final}, format); err != nil {
		s.logger.Error("writing export failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	stage := pipeline.FailedStage(err)
	log := s.logger.With("request_id", middleware.GetReqID(r.Context()), "stage", stage, "error", err)

	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case r.Context().Err() != nil:
		// Client went away; nobody is reading the reply.
		log.Info("client cancelled generation")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("generation timed out")
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: "generation timed out", Stage: stage})
	case errors.Is(err, pipeline.ErrGenerationFailed):
		log.Warn("generation failed")
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), Stage: stage})
	default:
		log.Error("generation failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (s *Server) recordInvalid() {
	if s.metrics != nil {
		s.metrics.RecordInvalid()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
