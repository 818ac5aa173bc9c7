// Package middlewares provides route pipeline handlers for sfap applications.
//
// Each constructor returns an sfap.RouteHandler meant for app.Use.
//
// # Navigation ID
//
// NavigationID assigns a unique ID to each dispatch. An upstream ID is taken
// from the "nid" query parameter when present.
//
// Use NavigationIDExtractor() with WithLogger for navigation_id in all logs
// written with the request context:
//
//	app, _ := sfap.New(
//	    sfap.WithLogger(middlewares.NavigationIDExtractor()),
//	)
//	app.Use(middlewares.NavigationID())
//
// # Recover
//
// Recover catches panics in later handlers and converts them to PanicError,
// which reaches the application's ErrorHandler.
//
// # Timeout
//
// Timeout puts a deadline on the request context and reports TimeoutError
// when the rest of the pipeline outlives it.
//
// # Logging, Metrics and Tracing
//
// Logging writes one record per dispatch. Metrics records Prometheus
// counters and histograms for dispatches and, through ObserveFetch, for view
// and module transport requests. Tracing starts an OpenTelemetry span per
// dispatch.
//
// # Recommended Middleware Order
//
//	app.Use(middlewares.NavigationID())             // ID for all subsequent logging
//	app.Use(middlewares.Tracing())                  // span covers everything below
//	app.Use(m.Handler())                            // metrics see recovered panics
//	app.Use(middlewares.Logging(app.Logger()))
//	app.Use(middlewares.Recover())
//	app.Use(middlewares.Timeout(5 * time.Second))
//
// # Complete Example
//
//	m := middlewares.NewMetrics()
//	app, err := sfap.New(
//	    sfap.WithLogger(middlewares.NavigationIDExtractor()),
//	    sfap.WithFetchObserver(m.ObserveFetch),
//	    sfap.WithErrorHandler(func(ctx context.Context, err error) {
//	        switch {
//	        case middlewares.IsPanicError(err):
//	            // report
//	        case middlewares.IsTimeoutError(err):
//	            // retry later
//	        }
//	    }),
//	)
package middlewares
