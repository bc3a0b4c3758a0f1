// Package server owns the HTTP listener: bind, serve in the background and
// shut down gracefully.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish.
const ShutdownTimeout = 10 * time.Second

type Server struct {
	http *http.Server
	log  *slog.Logger
	addr string
}

// New prepares a server for handler on addr (":3000").
func New(addr string, handler http.Handler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log:  log,
		addr: addr,
	}
}

// Start binds the address and serves in the background. A failure while
// serving is delivered on the returned channel, which is closed when the
// server stops.
func (s *Server) Start() (<-chan error, error) {
	lis, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("server: listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(lis), nil
}

// Serve serves on lis in the background.
func (s *Server) Serve(lis net.Listener) <-chan error {
	s.addr = lis.Addr().String()
	s.log.Info("server running", "addr", s.addr)

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		if err := s.http.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	return errc
}

// Addr is the bound address once serving, the configured one before.
func (s *Server) Addr() string { return s.addr }

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
