package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables capturing the stack trace.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverLogger sets the logger panics are reported to.
func WithRecoverLogger(log *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.Logger = log
	}
}

// Recover returns middleware that recovers from panics in later handlers.
// It logs the panic and returns a PanicError to be handled by the application's
// ErrorHandler. The navigation ID is included via NavigationIDExtractor() if
// the logger is configured with it.
func Recover(opts ...RecoverOption) internal.RouteHandler {
	cfg := &RecoverConfig{
		Logger:    logger.NewNope(),
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *internal.Request, next internal.Next) (err error) {
		defer func() {
			if v := recover(); v != nil {
				var stack []byte
				if !cfg.DisablePrintStack && cfg.StackSize > 0 {
					stack = make([]byte, cfg.StackSize)
					n := runtime.Stack(stack, false)
					stack = stack[:n]
				}

				attrs := []any{slog.Any("panic", v), slog.String("path", r.Pathname)}
				if stack != nil {
					attrs = append(attrs, slog.String("stack", string(stack)))
				}
				cfg.Logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				err = &PanicError{
					Value: v,
					Stack: stack,
				}
			}
		}()

		return next()
	}
}
