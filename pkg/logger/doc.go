// Package logger builds slog loggers for sfap applications.
//
// It adds three things on top of log/slog: context extractors that inject
// request-scoped attributes (such as the navigation ID) into every record,
// a level gate that lets an application switch debug output on and off at
// runtime, and optional Sentry reporting.
//
// # Basic Usage
//
//	log := logger.New(logger.Options{Format: logger.FormatText}, navigationIDExtractor)
//	log.InfoContext(ctx, "navigation dispatched", slog.String("path", "/users/42"))
//
// # Runtime Debug Output
//
// The application enables diagnostics with Enable("debug"). Internally the
// application wraps its handler with a gate backed by a slog.LevelVar:
//
//	var level slog.LevelVar
//	level.Set(slog.LevelInfo)
//	log := slog.New(logger.NewLevelGate(handler, &level))
//	level.Set(slog.LevelDebug) // debug records now pass through
//
// The gate only narrows: a handler configured at info level still drops
// debug records. Configure the primary output at debug level when diagnostics
// should be visible.
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(logger.SentryConfig{DSN: dsn}, logger.Options{}, extractors...)
//
// Errors create Sentry issues and warnings are stored as logs. With an empty
// DSN, or when the SDK fails to initialize, only the primary output is used.
package logger
