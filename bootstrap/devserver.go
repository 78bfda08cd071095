package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"eduverse/config"
	"eduverse/metrics"

	"go.uber.org/zap"
)

// DevHost is the interface the development server binds
const DevHost = "0.0.0.0"

// ErrDevServerStarted is returned when Run is called more than once
var ErrDevServerStarted = errors.New("development server already started")

// DevServer serves the application locally. It never reloads.
type DevServer struct {
	server          *http.Server
	logger          *zap.SugaredLogger
	shutdownTimeout time.Duration

	startOnce sync.Once
	ready     chan struct{}
	boundAddr string
}

// NewDevServer validates the configured port and prepares a server for
// handler. Nothing is bound until Run.
func NewDevServer(handler http.Handler, cfg *config.Config, logger *zap.Logger) (*DevServer, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	port, err := cfg.ListenPort()
	if err != nil {
		return nil, err
	}

	return &DevServer{
		server: &http.Server{
			Addr:              net.JoinHostPort(DevHost, strconv.Itoa(port)),
			Handler:           handler,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		},
		logger:          logger.Sugar(),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		ready:           make(chan struct{}),
	}, nil
}

// ListenAddr is the configured host:port
func (d *DevServer) ListenAddr() string {
	return d.server.Addr
}

// Ready is closed once the listener is bound
func (d *DevServer) Ready() <-chan struct{} {
	return d.ready
}

// BoundAddr is the address actually bound; only valid after Ready is closed
func (d *DevServer) BoundAddr() string {
	return d.boundAddr
}

// Run binds the listener and serves until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (d *DevServer) Run(ctx context.Context) error {
	first := false
	d.startOnce.Do(func() { first = true })
	if !first {
		return ErrDevServerStarted
	}

	ln, err := net.Listen("tcp", d.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.server.Addr, err)
	}
	d.boundAddr = ln.Addr().String()
	close(d.ready)

	metrics.DevServerUp.Set(1)
	defer metrics.DevServerUp.Set(0)
	d.logger.Infow("Development server listening", "addr", d.boundAddr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("development server failed: %w", err)
	case <-ctx.Done():
	}

	d.logger.Info("Shutting down development server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	<-errCh

	d.logger.Info("Development server stopped")
	return nil
}
