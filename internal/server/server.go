// Package server exposes trees, layouts and camera sessions over HTTP.
//
// Every session request loads the session snapshot, restores a camera
// controller over the session's tree, applies one event and saves the new
// snapshot. Requests for the same session are serialized by a
// [session.Locker], so events apply in arrival order.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/degreetree/pkg/camera"
	"github.com/matzehuels/degreetree/pkg/httputil"
	"github.com/matzehuels/degreetree/pkg/observability"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/session"
	"github.com/matzehuels/degreetree/pkg/store"
)

const (
	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = 10 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config wires the server to its backends. Trees, Sessions and Runner are
// required.
type Config struct {
	Addr       string
	Trees      store.Store
	Sessions   session.Store
	Runner     *pipeline.Runner
	Camera     camera.Config
	SessionTTL time.Duration

	// CleanupInterval controls the expired-session sweep; zero means
	// DefaultCleanupInterval and a negative value disables it.
	CleanupInterval time.Duration

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	locks  *session.Locker
	router chi.Router
}

// New creates a server. Zero camera settings and TTL fall back to defaults.
func New(cfg Config) *Server {
	if cfg.Camera == (camera.Config{}) {
		cfg.Camera = camera.DefaultConfig()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{cfg: cfg, locks: session.NewLocker()}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})

	r.Route("/trees", func(r chi.Router) {
		r.Get("/", s.handleListTrees)
		r.Route("/{treeID}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Put("/", s.handlePutTree)
			r.Delete("/", s.handleDeleteTree)
			r.Get("/layout", s.handleTreeLayout)
			r.Get("/dot", s.handleTreeDOT)
			r.Get("/svg", s.handleTreeSVG)
			r.Get("/issues", s.handleTreeIssues)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/select", s.handleSelect)
			r.Post("/zoom", s.handleZoom)
			r.Post("/wheel", s.handleWheel)
			r.Post("/viewport", s.handleViewport)
			r.Get("/svg", s.handleSessionSVG)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.cfg.CleanupInterval > 0 {
		go s.sweep(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep removes expired sessions until ctx is cancelled.
func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(s.cfg.CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.cfg.Sessions.Cleanup(ctx); err != nil {
				s.cfg.Logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// logRequests logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// fail writes err and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httputil.WriteError(w, err); status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := httputil.WriteJSON(w, status, v); err != nil {
		s.cfg.Logger.Debug("write response", "error", err)
	}
}
