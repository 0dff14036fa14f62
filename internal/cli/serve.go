package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/olivier-w/lineminimap/internal/stream"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine headless and stream frames over a websocket",
		Long: `serve runs one minimap surface per websocket client at /ws.
Clients send {"type":"measure"|"pointer"|"leave"|"scroll"} events and
receive a frame of per-line scale and opacity whenever the surface moves.
Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			logger := loggerFromContext(cmd.Context())
			srv, err := stream.NewServer(cfg.Options(), logger)
			if err != nil {
				return err
			}
			err = srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				logger.Info("server stopped")
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
