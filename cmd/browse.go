package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/reconcile"
	"github.com/desertthunder/recon/internal/shared"
	"github.com/desertthunder/recon/internal/ui"
)

// Browse launches the interactive cluster browser over the local database.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/recon-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	engine, err := r.openEngine(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

var _ ui.Source = (*reconcile.Engine)(nil)
