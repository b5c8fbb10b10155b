// Package server wraps net/http with graceful shutdown driven by OS
// signals.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/oxbow-labs/diagraph/pkg/logging"
)

// Options tunes the underlying http.Server.
type Options struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          logging.Logger
}

// GracefulServer wraps an HTTP server with signal-driven graceful
// shutdown.
type GracefulServer struct {
	server          *http.Server
	log             logging.Logger
	shutdownTimeout time.Duration
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
}

// NewGracefulServer creates a server bound to addr.
func NewGracefulServer(addr string, handler http.Handler, opts Options) *GracefulServer {
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		log:             opts.Logger.With(logging.Component("server")),
		shutdownTimeout: opts.ShutdownTimeout,
		shutdownCh:      make(chan struct{}),
	}
}

// Start serves until a shutdown signal arrives or the listener fails.
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	gs.log.Info("starting HTTP server", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown initiates a graceful shutdown. Safe to call more than once.
func (gs *GracefulServer) Shutdown() error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), gs.shutdownTimeout)
		defer cancel()

		gs.log.Info("shutting down", logging.Duration("timeout", gs.shutdownTimeout))
		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.log.Error("shutdown error", logging.Err(shutdownErr))
		} else {
			gs.log.Info("shutdown complete")
		}
	})
	return err
}

// Done is closed once shutdown has begun.
func (gs *GracefulServer) Done() <-chan struct{} {
	return gs.shutdownCh
}

func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		gs.log.Info("received signal", logging.String("signal", sig.String()))
		gs.Shutdown()
	case <-gs.shutdownCh:
	}
}
