package logger

import (
	"context"
	"log/slog"
)

// LevelGate drops records below a dynamic minimum level before they reach
// the wrapped handler. The wrapped handler's own level still applies.
type LevelGate struct {
	next  slog.Handler
	level slog.Leveler
}

// NewLevelGate wraps next with a minimum level read on every call.
func NewLevelGate(next slog.Handler, level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LevelGate{next: next, level: level}
}

func (g *LevelGate) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= g.level.Level() && g.next.Enabled(ctx, level)
}

func (g *LevelGate) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level < g.level.Level() {
		return nil
	}
	return g.next.Handle(ctx, rec)
}

func (g *LevelGate) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelGate{next: g.next.WithAttrs(attrs), level: g.level}
}

func (g *LevelGate) WithGroup(name string) slog.Handler {
	return &LevelGate{next: g.next.WithGroup(name), level: g.level}
}
