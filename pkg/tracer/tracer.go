package tracer

import (
	"context"
	"sync"

	"github.com/careloop/mcp-gateway/pkg/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	defaultTracer trace.Tracer
	fallback      = noop.NewTracerProvider().Tracer("noop")
	initOnce      sync.Once
	errInit       error
)

// InitTracer wires the package-level tracer. Safe to call more than once;
// only the first call takes effect.
func InitTracer(serviceName string, cfg otel.Config) error {
	initOnce.Do(func() {
		cfg.ServiceName = serviceName
		t, err := otel.InitTracer(cfg)
		if err != nil {
			errInit = err
			return
		}

		defaultTracer = t
	})

	return errInit
}

// Start opens a span on the default tracer. Before InitTracer (or after a
// failed init) spans are noop, never nil.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if defaultTracer == nil {
		return fallback.Start(ctx, spanName, opts...)
	}

	return defaultTracer.Start(ctx, spanName, opts...)
}
