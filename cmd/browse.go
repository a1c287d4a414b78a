package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/desertthunder/medspa/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal UI.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireListings(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/medspa-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, err := r.favoritesStore(ctx)
	if err != nil {
		return err
	}

	q := models.ListingQuery{Text: cmd.StringArg("query"), City: cmd.String("city")}.Normalize()
	model := ui.NewModel(ctx, r.listings, store, q, cmd.Bool("sidebar"))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
