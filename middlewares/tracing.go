package middlewares

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/sfap/internal"
)

const defaultTracerName = "github.com/dmitrymomot/sfap"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// Provider supplies the tracer. Default: otel.GetTracerProvider()
	Provider trace.TracerProvider

	// Filter determines which requests to trace. Nil traces everything.
	Filter func(r *internal.Request) bool

	// TracerName is the instrumentation name (default: "github.com/dmitrymomot/sfap").
	TracerName string
}

// TracingOption configures TracingConfig.
type TracingOption func(*TracingConfig)

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithTracerName sets the instrumentation name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracingFilter skips tracing for requests fn rejects.
func WithTracingFilter(fn func(r *internal.Request) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = fn
	}
}

// Tracing returns middleware that starts a span per dispatch and puts it in
// the request context, so view and module fetches made by later handlers
// become child operations.
//
// The tracer comes from the global OpenTelemetry provider unless
// WithTracerProvider is given:
//
//	otel.SetTracerProvider(tp)
//	app.Use(middlewares.Tracing())
func Tracing(opts ...TracingOption) internal.RouteHandler {
	cfg := &TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Provider == nil {
		cfg.Provider = otel.GetTracerProvider()
	}
	tracer := cfg.Provider.Tracer(cfg.TracerName)

	return func(r *internal.Request, next internal.Next) error {
		if cfg.Filter != nil && !cfg.Filter(r) {
			return next()
		}

		ctx, span := tracer.Start(r.Context(), "sfap.navigate "+r.Pathname,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String("sfap.path", r.Pathname),
				attribute.String("sfap.href", r.Href),
				attribute.String("sfap.hash", r.Hash),
			),
		)
		defer span.End()

		r.SetContext(ctx)
		err := next()

		for name, value := range r.Params {
			span.SetAttributes(attribute.String("sfap.param."+name, value))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

// SpanFromRequest returns the span started for r, or a no-op span.
func SpanFromRequest(r *internal.Request) trace.Span {
	return trace.SpanFromContext(r.Context())
}
