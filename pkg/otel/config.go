package otel

import (
	"go.opentelemetry.io/otel/attribute"
)

// Config controls tracer initialization. A disabled config (or an empty
// endpoint) yields a noop tracer, so callers never need to branch on
// whether tracing is on.
type Config struct {
	ServiceName string
	Environment string
	// EndpointURL selects the exporter: a grpc:// scheme uses the OTLP gRPC
	// exporter, anything else the OTLP HTTP one.
	EndpointURL        string
	Enabled            bool
	SampleRatio        float64
	Insecure           bool
	ResourceAttributes map[string]string
}

func (c Config) toResourceAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(c.ResourceAttributes)+2)
	attrs = append(attrs, attribute.String("service.name", c.ServiceName))
	if c.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", c.Environment))
	}

	for k, v := range c.ResourceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return attrs
}
