package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/drewfead/lunchmap/internal/services"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
)

const shutdownTimeout = 30 * time.Second

type Option func(*Server)

// WithStaticDir serves the built client from dir, falling back to dir/index.html for
// unknown non-API paths.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithMapsAPIKey sets the key handed to the client by GET /config.
func WithMapsAPIKey(key string) Option {
	return func(s *Server) {
		s.mapsAPIKey = key
	}
}

// WithNow overrides the time reported by GET /health.
func WithNow(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

type Server struct {
	menus      services.MenuService
	staticDir  string
	mapsAPIKey string
	now        func() time.Time
	handler    http.Handler
}

func New(menus services.MenuService, opts ...Option) *Server {
	s := &Server{
		menus: menus,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{source}", s.handleMenu)
	mux.HandleFunc("GET /scrape", s.handleScrape)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /config", s.handleConfig)
	mux.HandleFunc("/api/", handleNotFound)
	mux.Handle("/", s.fallback())

	var h http.Handler = recoverer(mux)
	h = gzhttp.GzipHandler(h)
	h = cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}).Handler(h)
	h = blockLegacyBrowsers(h)
	h = accessLog(h)
	s.handler = h
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", ln.Addr().String(), "sources", len(s.menus.Sources()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server exited gracefully")
	return nil
}
