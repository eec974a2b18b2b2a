package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/metrics"
	"github.com/aretw0/journey/internal/presentation/tui"
	httpAdapter "github.com/aretw0/journey/pkg/adapters/http"
)

// ShutdownTimeout bounds how long Serve waits for open requests.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Options
	// Addr overrides the configured listen address.
	Addr string
	// Listener is used instead of listening on Addr when set.
	Listener net.Listener
	Out      io.Writer
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Addr != "" {
		cfg.HTTP.Addr = opts.Addr
	}
	logger := cfg.Logger()

	collectors := metrics.New()
	eng, closeStore, err := createEngine(ctx, cfg, logger, collectors.Hooks())
	if err != nil {
		return err
	}
	defer closeStore()

	ln := opts.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", cfg.HTTP.Addr)
		if err != nil {
			return err
		}
	}

	tui.PrintBanner(opts.Out, journey.Version)
	srv := &http.Server{
		Handler: httpAdapter.NewHandler(eng,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(collectors.Handler()),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Out, "Starting journey server on %s (%s store)", ln.Addr(), cfg.Store.Kind)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Shutting down", "cause", context.Cause(ctx))

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("close server: %w", err)
			}
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		printSystemMessage(opts.Out, "Journey server stopped gracefully")
		return nil
	}
}
