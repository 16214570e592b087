package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hashroute/internal/errors"
	"github.com/vango-dev/hashroute/pkg/location"
	"github.com/vango-dev/hashroute/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Long: `Run the hashroute server until interrupted.

Endpoints:
  GET  /api/decode   Decode ?href= (and optional &base=)
  POST /api/encode   Encode {"path":[...]} or {"joined":"..."}
  GET  /ws           WebSocket location bridge
  GET  /metrics      Prometheus metrics (when enabled)

Examples:
  hashroute serve
  hashroute serve --address=localhost:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			logger := cfg.Logger(cmd.ErrOrStderr())
			slog.SetDefault(logger)

			srv := server.New(&server.Config{
				Address:          cfg.Server.Address,
				AllowedOrigins:   cfg.Server.AllowedOrigins,
				ShutdownTimeout:  cfg.ShutdownTimeout(),
				Codec:            codecFor(cfg),
				Metrics:          cfg.Metrics.Enabled,
				MetricsNamespace: cfg.Metrics.Namespace,
				Tracing:          cfg.Tracing.Enabled,
				TracerName:       cfg.Tracing.TracerName,
				Logger:           logger,
				OnConnect:        logNavigation,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd, "Serving on %s", cfg.Server.Address)
			if err := srv.ListenAndServe(ctx); err != nil {
				return errors.New("E301").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Address to listen on (default from hashroute.json)")

	return cmd
}

// logNavigation logs every location a connection moves to.
func logNavigation(c *server.Conn) {
	c.Location().Subscribe(func(s *location.Snapshot) {
		c.Logger().Debug("location changed",
			"path", s.Path().String(),
			"options", s.Options().String(),
			"version", s.Version(),
		)
	})
}
