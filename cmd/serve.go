package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/server"
	"github.com/desertthunder/recon/internal/services"
	"github.com/desertthunder/recon/internal/shared"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API until ctx is cancelled, then drains in-flight requests.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	engine, err := r.openEngine(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.NewRouter(engine, r.logger),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", srv.Addr, "database", r.config.Database.Path)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Status checks the health of a running server.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	remote := cmd.String("remote")
	if remote == "" {
		remote = r.config.Client.BaseURL
	}

	r.logger.Info("checking server status", "remote", remote)

	api := services.NewAPIService(remote, r.httpClient)
	if err := api.Health(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, remote, err)
	}

	return r.writePlain("✓ Service is healthy\nServer: %s\n", remote)
}
