package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sfap/pkg/transport"
)

func migrateCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the Postgres resource table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(*cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := transport.ConnectPostgres(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := transport.Migrate(ctx, pool, cfg.Postgres.MigrationsTable, log); err != nil {
				return err
			}
			log.Info("migrations applied", slog.String("table", cfg.Postgres.MigrationsTable))
			return nil
		},
	}
}
