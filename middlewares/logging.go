package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sfap/internal"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	Level slog.Level // Level for successful dispatches (default: Debug)
}

// LoggingOption configures LoggingConfig.
type LoggingOption func(*LoggingConfig)

// WithLoggingLevel sets the level successful dispatches are logged at.
func WithLoggingLevel(level slog.Level) LoggingOption {
	return func(cfg *LoggingConfig) {
		cfg.Level = level
	}
}

// Logging returns middleware that writes one record per dispatch with the
// path, duration and outcome. Failed dispatches are logged at error level.
func Logging(log *slog.Logger, opts ...LoggingOption) internal.RouteHandler {
	cfg := &LoggingConfig{Level: slog.LevelDebug}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *internal.Request, next internal.Next) error {
		start := time.Now()
		err := next()

		attrs := []slog.Attr{
			slog.String("path", r.Pathname),
			slog.String("href", r.Href),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			log.LogAttrs(r.Context(), slog.LevelError, "navigation failed", attrs...)
			return err
		}
		log.LogAttrs(r.Context(), cfg.Level, "navigation", attrs...)
		return nil
	}
}
