package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sambeau/measure/config"
	"github.com/sambeau/measure/pkg/measure/converter"
)

// Server is the HTTP shell around a converter.
type Server struct {
	config      *config.Config
	configPath  string
	conv        *converter.Converter
	stdout      io.Writer
	stderr      io.Writer
	getenv      func(string) string
	mux         *http.ServeMux
	server      *http.Server
	rateLimiter *rateLimiter
	helpPage    []byte
	watcher     *Watcher
}

// New creates a server for cfg. configPath is the file cfg was loaded from,
// or "" when running on defaults; when set, display settings are reloaded
// whenever the file changes. A nil converter uses converter.Default.
func New(cfg *config.Config, configPath string, conv *converter.Converter, stdout, stderr io.Writer) (*Server, error) {
	if conv == nil {
		conv = converter.Default
	}
	conv.SetSettings(displaySettings(cfg.Display))

	s := &Server{
		config:      cfg,
		configPath:  configPath,
		conv:        conv,
		stdout:      stdout,
		stderr:      stderr,
		getenv:      os.Getenv,
		mux:         http.NewServeMux(),
		rateLimiter: newRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
	}

	page, err := renderHelpPage()
	if err != nil {
		return nil, fmt.Errorf("rendering help page: %w", err)
	}
	s.helpPage = page

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the HTTP mux.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.handleHelp)
	s.mux.Handle("/api/categories", s.limit(http.HandlerFunc(s.handleCategories)))
	s.mux.Handle("/api/convert", s.limit(http.HandlerFunc(s.handleConvert)))
	s.mux.Handle("/api/ask", s.limit(http.HandlerFunc(s.handleAsk)))
}

// Handler returns the mux wrapped in security headers, compression and
// request logging.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux

	handler = newSecurityHeaders(handler)
	handler = newCompressionHandler(handler, s.config.Compression)

	// Wrap with request logging middleware (unless quiet or error-only)
	if !s.config.Logging.Quiet && s.config.Logging.Level != "error" {
		handler = newRequestLogger(handler, s.stdout, s.config.Logging.Format)
	}

	return handler
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.listenAddr()

	if s.configPath != "" {
		watcher, err := NewWatcher(s, s.configPath, s.stdout, s.stderr)
		if err != nil {
			s.logError("failed to create watcher: %v", err)
		} else {
			s.watcher = watcher
			if err := s.watcher.Start(ctx); err != nil {
				s.logError("failed to start watcher: %v", err)
			}
			defer s.watcher.Close()
		}
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logInfo("Starting measure on http://%s", addr)
		errCh <- s.server.ListenAndServe()
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logInfo("\nShutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// listenAddr returns the address to listen on based on configuration.
func (s *Server) listenAddr() string {
	return net.JoinHostPort(s.config.Server.Host, fmt.Sprint(s.config.Server.Port))
}

// reloadDisplay re-reads the config file and applies its display settings.
// Other sections need a restart.
func (s *Server) reloadDisplay() error {
	cfg, _, err := config.LoadWithPath(s.configPath, s.getenv)
	if err != nil {
		return err
	}
	settings := displaySettings(cfg.Display)
	s.conv.SetSettings(settings)
	s.logInfo("[CONFIG] display reloaded: precision=%d symbols=%t", settings.Precision, settings.Symbols)
	return nil
}

func displaySettings(d config.DisplayConfig) converter.Settings {
	return converter.Settings{Precision: d.Precision, Symbols: d.Symbols}
}

func (s *Server) logInfo(format string, args ...any) {
	switch s.config.Logging.Level {
	case "warn", "error":
		return
	}
	fmt.Fprintf(s.stdout, format+"\n", args...)
}

func (s *Server) logDebug(format string, args ...any) {
	if s.config.Logging.Level == "debug" {
		fmt.Fprintf(s.stdout, "[DEBUG] "+format+"\n", args...)
	}
}

func (s *Server) logError(format string, args ...any) {
	fmt.Fprintf(s.stderr, "[ERROR] "+format+"\n", args...)
}
