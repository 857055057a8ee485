// Package httpserver wires the docsite routes into a single HTTP listener.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	handlers "git.home.luguber.info/inful/docsite/internal/server/handlers"
	smw "git.home.luguber.info/inful/docsite/internal/server/middleware"
)

// Server serves documentation pages, the JSON API and monitoring endpoints.
type Server struct {
	cfg          *config.Config
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter

	pageHandlers       *handlers.PageHandlers
	apiHandlers        *handlers.APIHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	mchain func(http.Handler) http.Handler

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	served chan struct{}
}

// New constructs the server for cfg reading pages from holder.
func New(cfg *config.Config, holder *content.Holder, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		logger:       logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(logger),
	}

	s.pageHandlers = handlers.NewPageHandlers(holder, cfg.Navigation, cfg.Site.Title)
	s.apiHandlers = handlers.NewAPIHandlers(holder, cfg.Navigation, handlers.APIOptions{
		History:      opts.History,
		HistoryLimit: cfg.History.Limit,
		Reloader:     opts.Reloader,
	})
	s.monitoringHandlers = handlers.NewMonitoringHandlers(holder, opts.Version)

	s.mchain = smw.Chain(logger, s.errorAdapter, opts.Recorder)
	return s
}

// Handler returns the complete routing tree wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.pageHandlers.HandleRoot)
	mux.HandleFunc("GET /docs", s.pageHandlers.HandleDocs)
	mux.HandleFunc("GET /docs/{slug...}", s.pageHandlers.HandleDocs)

	mux.HandleFunc("GET /api/pages", s.apiHandlers.HandlePages)
	mux.HandleFunc("GET /api/pages/{slug...}", s.apiHandlers.HandlePage)
	mux.HandleFunc("GET /api/nav", s.apiHandlers.HandleNav)
	mux.HandleFunc("GET /api/index", s.apiHandlers.HandleIndex)
	mux.HandleFunc("GET /api/reloads", s.apiHandlers.HandleReloads)
	mux.HandleFunc("POST /api/reload", s.apiHandlers.HandleReload)

	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealth)

	if s.cfg.Metrics.Enabled && s.opts.MetricsHandler != nil {
		mux.Handle("GET "+s.cfg.Metrics.Path, s.opts.MetricsHandler)
	}

	mux.HandleFunc("/", s.pageHandlers.HandleNotFound)

	return s.mchain(mux)
}

// Start binds the configured address and serves in the background.
// Bind errors are returned before any goroutine starts.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.New("http server already started")
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Address)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "http startup failed").
			WithContext("address", s.cfg.Server.Address).
			Fatal().
			Build()
	}

	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	s.ln = ln
	s.served = make(chan struct{})

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logfields.Error(err))
		}
	}(s.srv, s.served)

	s.logger.Info("HTTP server started", logfields.Address(ln.Addr().String()))
	return nil
}

// Addr is the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.served
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-done
	s.logger.Info("HTTP server stopped")
	return nil
}
