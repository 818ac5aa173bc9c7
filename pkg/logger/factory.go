package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Format selects the encoding of the primary output.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Options configures the primary output handler.
type Options struct {
	// Output defaults to os.Stderr so stdout stays free for command output.
	Output io.Writer
	// Level defaults to slog.LevelInfo. Pass a *slog.LevelVar to change it at runtime.
	Level  slog.Leveler
	Format Format
}

func (o Options) handler() slog.Handler {
	w := o.Output
	if w == nil {
		w = os.Stderr
	}
	level := o.Level
	if level == nil {
		level = slog.LevelInfo
	}
	ho := &slog.HandlerOptions{Level: level}
	if o.Format == FormatText {
		return slog.NewTextHandler(w, ho)
	}
	return slog.NewJSONHandler(w, ho)
}

// New creates a logger with optional context extractors.
func New(opts Options, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(opts.handler(), extractors...))
}

// ParseLevel converts a level name such as "debug" or "warn" into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Join(ErrInvalidLevel, err)
	}
	return l, nil
}
