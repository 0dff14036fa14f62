// Package cli implements the lineminimap command line.
//
// The root command runs the minimap in the terminal; serve runs the same
// engine headless behind a websocket. Both read an optional TOML config and
// log through charmbracelet/log.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/olivier-w/lineminimap/internal/config"
)

type options struct {
	configPath string
	verbose    bool
	logFile    string
	count      int
	fps        int
}

// Execute runs the lineminimap CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "lineminimap",
		Short:        "A strip of lines that swell under the pointer and follow the scroll",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.IntVar(&opts.count, "count", 0, "number of lines (overrides config)")
	flags.IntVar(&opts.fps, "fps", 0, "frame rate (overrides config)")
	root.Flags().StringVar(&opts.logFile, "log-file", "", "write logs here while the terminal UI runs")

	root.AddCommand(newServeCmd(opts))
	return root
}

// loadConfig reads the config file, if any, then applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Layout.ElementCount = opts.count
	}
	if flags.Changed("fps") {
		cfg.Frame.FPS = opts.fps
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	loggerFromContext(cmd.Context()).Debug("config loaded",
		"path", opts.configPath, "lines", cfg.Layout.ElementCount, "fps", cfg.Frame.FPS)
	return cfg, nil
}

// tuiLogger sends logs to path, or nowhere, so they do not tear the screen.
func tuiLogger(path string, level log.Level) (*log.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, level), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), func() { f.Close() }, nil
}
