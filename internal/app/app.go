// Package app owns the application lifecycle: it acquires shared resources
// at startup, serves the HTTP API and releases everything on the way out.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	apphttp "kb_backend/internal/http"
	"kb_backend/internal/http/router"
	"kb_backend/platform/config"
	"kb_backend/platform/httpclient"
	"kb_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Config combines the settings the lifecycle needs.
type Config interface {
	apphttp.RouterConfig
	config.LifecycleConfig
}

// ClientFactory allocates the shared outbound client.
type ClientFactory func(timeout time.Duration) httpclient.Shared

// Application is the composed service. Construct it once per process.
type Application struct {
	cfg       Config
	log       *logger.Logger
	modules   []apphttp.Module
	newClient ClientFactory
}

// Option customizes an Application.
type Option func(*Application)

// WithClientFactory replaces the default shared client constructor.
func WithClientFactory(factory ClientFactory) Option {
	return func(a *Application) {
		a.newClient = factory
	}
}

// New creates the application for cfg serving modules under /api/v1.
func New(cfg Config, log *logger.Logger, modules []apphttp.Module, opts ...Option) *Application {
	a := &Application{
		cfg:     cfg,
		log:     log,
		modules: modules,
		newClient: func(timeout time.Duration) httpclient.Shared {
			return httpclient.New(timeout)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run listens on the configured address and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.GetHTTPAddr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.GetHTTPAddr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the serving phase on ln. The shared client is allocated first
// and closed exactly once when Serve returns, whether serving ended through
// cancellation, a startup failure or a panic.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.log.Info("starting application",
		"name", a.cfg.GetAppName(),
		"version", a.cfg.GetAppVersion(),
	)

	client := a.newClient(a.cfg.GetHTTPClientTimeout())
	defer a.shutdown(client)

	engine, err := router.New(&apphttp.App{
		Config:     a.cfg,
		Logger:     a.log,
		HTTPClient: client,
		Modules:    a.modules,
	})
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GetShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// shutdown releases the shared client. Close errors are logged only so they
// never block process exit.
func (a *Application) shutdown(client httpclient.Shared) {
	if err := client.Close(); err != nil {
		a.log.Warn("failed to close shared http client", "error", err)
	}
	a.log.Info("shutting down application")
}
