// Package server exposes the research use cases over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"research/config"
	"research/internal/usecase"
)

// Deps are the use cases served by the API.
type Deps struct {
	Agent     *usecase.AgentUseCase
	Search    *usecase.SearchUseCase
	Cite      *usecase.CiteUseCase
	Compare   *usecase.CompareUseCase
	Summarize *usecase.SummarizeUseCase
	Documents *usecase.DocumentsUseCase
	Metrics   *Metrics
}

// Server is the research assistant HTTP API.
type Server struct {
	cfg     config.ServerConfig
	deps    Deps
	logger  *zap.Logger
	handler http.Handler
}

// New builds the router and middleware chain. The rate limiter's
// background cleanup stops when ctx is canceled.
func New(ctx context.Context, cfg config.ServerConfig, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With(zap.String("component", "server")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /rank_and_cite", s.handleRankAndCite)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("POST /upload_file", s.handleUpload)
	mux.HandleFunc("DELETE /file/{filename}", s.handleDelete)
	mux.HandleFunc("GET /files", s.handleListFiles)
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		RequestLogger(s.logger),
		MetricsMiddleware(deps.Metrics),
		CORS(cfg.CORSAllowedOrigins),
	}
	if cfg.RateLimitRPS > 0 {
		middlewares = append(middlewares, RateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	s.handler = Chain(mux, middlewares...)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
