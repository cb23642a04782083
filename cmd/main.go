package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/recon/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	if err := runner.app().Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
