package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `yaml:"dsn" env:"SENTRY_DSN"`
	Environment string `yaml:"environment" env:"SENTRY_ENVIRONMENT" envDefault:"development"`
	// Release tags events with the build that produced them.
	Release string `yaml:"release" env:"SENTRY_RELEASE"`
	// ErrorsOnly keeps warnings out of Sentry logs; dispatch failures are always events.
	ErrorsOnly bool `yaml:"errors_only" env:"SENTRY_ERRORS_ONLY"`
}

// NewWithSentry creates a logger that writes to opts.Output and Sentry.
// If DSN is empty only the primary output is used.
// Context extractors are applied to records sent to both destinations.
func NewWithSentry(cfg SentryConfig, opts Options, extractors ...ContextExtractor) *slog.Logger {
	primary := opts.handler()

	if cfg.DSN == "" {
		return slog.New(NewLogHandlerDecorator(primary, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(primary).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(primary, extractors...))
	}

	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.ErrorsOnly {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel,
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(Fanout(primary, sentryHandler), extractors...))
}
