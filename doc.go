// Package sfap is a navigation dispatch shell for hash-routed applications.
//
// An App receives navigation events from a NavigationSource, parses the
// target into a Request, and runs it through a middleware pipeline of route
// handlers. Views and modules are fetched by logical name through a pluggable
// transport, compiled once, and cached for the lifetime of the App.
//
// # Quick Start
//
//	app, err := sfap.New(
//	    sfap.WithName("shop"),
//	    sfap.WithLocation("https://example.com/#/products"),
//	    sfap.WithTransport(transport.NewFS(os.DirFS("./site"))),
//	    sfap.WithLogger(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	app.Route("/products/:id", func(r *sfap.Request, next sfap.Next) error {
//	    html, err := app.View(r.Context(), "product", map[string]any{
//	        "ID": sfap.Param[int](r, "id"),
//	    })
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(html)
//	    return nil
//	})
//
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Middleware
//
// Handlers registered with Use run for every navigation in registration
// order. A handler either finishes the navigation or calls next exactly once:
//
//	app.Use(func(r *sfap.Request, next sfap.Next) error {
//	    start := time.Now()
//	    err := next()
//	    app.Debug("navigated", "path", r.Pathname, "took", time.Since(start))
//	    return err
//	})
//
// Route and Match add handlers that only run when the path matches a pattern.
// Unmatched routes call next.
//
// # Ordering
//
// Navigations are dispatched one at a time in arrival order. A navigation
// started from inside a handler is queued and runs after the current one
// completes.
//
// # Settings
//
// Enable and Disable toggle named boolean settings. The "debug" setting
// switches on debug level log records produced through App.Debug.
package sfap
