// Package devserver serves view and module source over HTTP for development
// and for hosting resources next to an application.
//
// The Server reads from any resource.Transport, so a directory, an S3 bucket
// or the Postgres resource table can back it:
//
//	srv, err := devserver.New(transport.Dir("./site"),
//	    devserver.WithCheck("postgres", transport.PostgresHealthcheck(pool)),
//	    devserver.WithMetrics(prometheus.DefaultGatherer),
//	)
//	if err != nil {
//	    return err
//	}
//	return devserver.Run(ctx, srv, devserver.Address(":8080"))
//
// Run handles SIGINT and SIGTERM with a graceful shutdown and runs the
// registered shutdown hooks afterwards.
package devserver
