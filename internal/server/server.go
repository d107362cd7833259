// Package server provides the HTTP server lifecycle management for streakd.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/streakd/streakd/internal/logger"
)

const (
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = "localhost:7433"
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Server manages the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	closer     io.Closer
	listener   net.Listener
	mu         sync.Mutex
	started    bool
}

// New creates a new Server serving handler on addr.
// If addr is empty, DefaultAddress is used. closer, usually the store, is
// closed after a successful shutdown and may be nil.
func New(addr string, handler http.Handler, closer io.Closer) *Server {
	if addr == "" {
		addr = DefaultAddress
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     logger.StdLogger(),
		},
		closer: closer,
	}
}

// Start starts the HTTP server and blocks until the server is shut down.
// It returns http.ErrServerClosed when the server is gracefully shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	// Listen first so Addr reports the real port when binding to :0
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.listener = ln
	s.started = true
	s.mu.Unlock()

	logger.Info("server listening", "addr", ln.Addr().String())

	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server without interrupting active connections.
// It waits for active connections to finish or until the context is canceled.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			logger.Warn("error closing store", "err", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// ListenAndServe starts the server and shuts it down on SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	return s.Shutdown(ctx)
}
