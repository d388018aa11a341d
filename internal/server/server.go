// Package server serves the leaderboard upload page over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe, responds "ok"
//	GET  /                   demo leaderboard with an upload form
//	POST /render             multipart upload (field "file") rendered as HTML
//	GET  /leaderboard.{fmt}  demo leaderboard as html, svg, json, png or pdf
//
// POST /render and GET /leaderboard.{fmt} accept the render fields metric,
// direction (lower|higher), avatar_size, show_rank, max and seed. Ingestion
// and schema errors are reported as 400 with the loader's message.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/skijump/pkg/pipeline"
)

// Server defaults.
const (
	DefaultMaxUploadBytes = 10 << 20
	shutdownTimeout       = 5 * time.Second
	readHeaderTimeout     = 10 * time.Second
	uploadPath            = "/render"
)

// Server renders leaderboards for HTTP clients. Each request gets its own
// copy of Defaults, so handlers share nothing but the runner's cache.
type Server struct {
	Runner         *pipeline.Runner
	Defaults       pipeline.Options
	MaxUploadBytes int64
	Logger         *log.Logger

	router chi.Router
}

// New creates a server that renders through runner. defaults supplies the
// render options that requests do not override.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		Runner:         runner,
		Defaults:       defaults,
		MaxUploadBytes: DefaultMaxUploadBytes,
		Logger:         logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Get("/", s.handleIndex)
	r.Post(uploadPath, s.handleUpload)
	r.Get("/leaderboard.{format}", s.handleLeaderboard)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs one line per request with its status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}
