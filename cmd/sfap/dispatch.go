package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sfap"
	"github.com/dmitrymomot/sfap/middlewares"
)

func dispatchCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch URL [HASH...]",
		Short: "Dispatch navigations headlessly and print rendered views",
		Long: `Start an application at URL, dispatching it through the routes of the
config file, then navigate to every HASH in order. Each matched route renders
its view with the route params and query and prints the result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(*cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			src, err := openSource(ctx, *cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close(context.Background()) }()

			var (
				mu   sync.Mutex
				errs []error
			)
			metrics := middlewares.NewMetrics(middlewares.WithMetricsRegistry(prometheus.NewRegistry()))
			opts := []sfap.Option{
				sfap.WithFetchObserver(metrics.ObserveFetch),
				sfap.WithName(cfg.Name),
				sfap.WithLocation(args[0]),
				sfap.WithTransport(src.transport),
				sfap.WithCustomLogger(log),
				sfap.WithErrorHandler(func(ctx context.Context, err error) {
					sfap.LogErrors(log)(ctx, err)
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}),
			}
			if cfg.Debug {
				opts = append(opts, sfap.WithSettings(sfap.DebugSetting))
			}

			app, err := sfap.New(opts...)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if err := registerRoutes(app, metrics, cfg.Routes, cmd.OutOrStdout()); err != nil {
				return err
			}
			if err := app.Start(ctx); err != nil {
				return err
			}
			for _, hash := range args[1:] {
				app.SetHash(hash)
			}

			mu.Lock()
			defer mu.Unlock()
			return errors.Join(errs...)
		},
	}

	return cmd
}

// registerRoutes installs the standard middleware stack and one rendering
// route per configured entry.
func registerRoutes(app *sfap.App, metrics *middlewares.Metrics, routes []RouteConfig, out io.Writer) error {
	stack := []sfap.RouteHandler{
		middlewares.NavigationID(),
		middlewares.Tracing(),
		metrics.Handler(),
		middlewares.Logging(app.Logger()),
		middlewares.Timeout(middlewares.DefaultTimeout),
		middlewares.Recover(middlewares.WithRecoverLogger(app.Logger())),
	}
	for _, h := range stack {
		if err := app.Use(h); err != nil {
			return err
		}
	}

	for _, rt := range routes {
		view := rt.View
		err := app.Route(rt.Pattern, func(r *sfap.Request, _ sfap.Next) error {
			html, err := app.View(r.Context(), view, map[string]any{
				"Params": r.Params,
				"Query":  r.Query,
				"Path":   r.Pathname,
				"Hash":   r.Hash,
			})
			if err != nil {
				return fmt.Errorf("render %s: %w", view, err)
			}
			_, err = fmt.Fprintln(out, html)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
