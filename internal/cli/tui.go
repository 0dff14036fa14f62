package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/olivier-w/lineminimap/internal/config"
	"github.com/olivier-w/lineminimap/internal/ui"
)

func runTUI(ctx context.Context, cfg config.Config, opts *options) error {
	level := log.InfoLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	logger, closeLog, err := tuiLogger(opts.logFile, level)
	if err != nil {
		return err
	}
	defer closeLog()

	model, err := ui.New(cfg, logger)
	if err != nil {
		return err
	}
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
