// Package server owns the listen/serve/shutdown lifecycle of the HTTP and
// gRPC listeners.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/grpc"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Options configures Run.
type Options struct {
	HTTPPort string
	// GRPCPort may be empty to skip the gRPC listener.
	GRPCPort string
	Handler  http.Handler
	Check    grpc.Checker
}

// Run serves until ctx is done or a listener fails.
func Run(ctx context.Context, opts Options) error {
	srv := &http.Server{
		Addr:              ":" + opts.HTTPPort,
		Handler:           opts.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// the gRPC listener drains when Run returns, whatever the reason
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	if opts.GRPCPort != "" {
		if err := grpc.Serve(ctx, opts.GRPCPort, opts.Check); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
