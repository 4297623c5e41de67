package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for player lookups.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireConfig(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	id, err := resolveID(cmd.StringArg("id"), "")
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.pipeline, r.renderer, id)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
