// Package server exposes parsing and linting over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP API server.
type Server struct {
	engine   *engine.Engine
	addr     string
	watch    []string
	logger   *slog.Logger
	notifier *Notifier
}

// Config holds configuration for the server.
type Config struct {
	Engine *engine.Engine
	Addr   string
	// Watch lists paths re-linted on change; events go to /events
	Watch  []string
	Logger *slog.Logger
}

// New creates a new server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		engine:   cfg.Engine,
		addr:     cfg.Addr,
		watch:    cfg.Watch,
		logger:   logger,
		notifier: NewNotifier(),
	}
}

// Notifier returns the server's event notifier.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	h := &handlers{engine: s.engine, logger: s.logger, notifier: s.notifier}
	r.Get("/healthz", h.health)
	r.Post("/parse", h.parse)
	r.Post("/lex", h.lex)
	r.Post("/lint", h.lint)
	r.Post("/fix", h.fix)
	r.Get("/rules", h.listRules)
	r.Get("/rules/{id}", h.getRule)
	r.Get("/dialects", h.listDialects)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.listRuns)
		r.Get("/{id}", h.getRun)
	})
	r.Get("/events", h.events)
	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", slog.String("addr", "http://"+ln.Addr().String()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if len(s.watch) > 0 {
		w, err := s.engine.NewWatcher(s.watch)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer w.Close()
		eg.Go(func() error {
			return w.Run(egctx, engine.DefaultDebounce, func(changed []string) {
				s.relint(egctx, changed)
			})
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// relint lints changed files and broadcasts one event per file.
func (s *Server) relint(ctx context.Context, changed []string) {
	res, err := s.engine.LintFiles(ctx, changed, engine.RunOptions{})
	if err != nil {
		s.logger.Error("lint failed", slog.String("error", err.Error()))
		return
	}
	for _, f := range res.Files {
		s.notifier.Broadcast(Event{
			Kind:       EventLint,
			Path:       f.Path,
			Violations: len(f.Violations),
			RunID:      res.RunID,
		})
	}
}

// requestLogger logs each request at debug level once it completes.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
