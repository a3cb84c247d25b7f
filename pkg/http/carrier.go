package http

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// headerCarrier adapts a resty request to the propagation.TextMapCarrier
// interface so W3C trace context reaches the upstream service.
type headerCarrier resty.Request

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

func (c *headerCarrier) Get(key string) string {
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, value string) {
	(*resty.Request)(c).SetHeader(key, value)
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

func injectTracingHeaders(ctx context.Context, request *resty.Request) {
	if propagator := otel.GetTextMapPropagator(); propagator != nil {
		propagator.Inject(ctx, (*headerCarrier)(request))
	}
}
