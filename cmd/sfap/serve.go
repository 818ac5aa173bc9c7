package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sfap/pkg/devserver"
)

func serveCmd(cfg *Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve views and modules over HTTP",
		Long: `Serve view and module source from the configured source under
/view/* and /module/*, with health probes and Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				cfg.Server.Address = addr
			}
			log, err := newLogger(*cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			src, err := openSource(ctx, *cfg, log)
			if err != nil {
				return err
			}

			opts := []devserver.Option{devserver.WithLogger(log)}
			for name, check := range src.checks {
				opts = append(opts, devserver.WithCheck(name, check))
			}
			if cfg.Server.Metrics {
				opts = append(opts, devserver.WithMetrics(prometheus.DefaultGatherer))
			}

			srv, err := devserver.New(src.transport, opts...)
			if err != nil {
				return err
			}

			log.Info("serving resources", slog.String("source", cfg.Source.Kind))
			return devserver.Run(ctx, srv,
				devserver.Address(cfg.Server.Address),
				devserver.Logger(log),
				devserver.ShutdownTimeout(cfg.Server.ShutdownTimeout),
				devserver.ShutdownHook(src.Close),
			)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.address)")

	return cmd
}
