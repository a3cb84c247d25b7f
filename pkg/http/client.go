package http

import (
	"context"
	"sync"
	"time"

	"github.com/careloop/mcp-gateway/pkg/tracer"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout caps any outbound call that does not bring its own
// context deadline.
const DefaultTimeout = 60 * time.Second

var (
	//nolint:gochecknoglobals // Shared HTTP client is intentional for connection reuse
	client *resty.Client
	//nolint:gochecknoglobals // Global once is intentional for thread-safe initialization
	once sync.Once
)

func getClient() *resty.Client {
	once.Do(func() {
		client = resty.New().
			SetTimeout(DefaultTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
	})
	return client
}

type RequestOption func(*resty.Request)

func WithBody(body any) RequestOption {
	return func(r *resty.Request) {
		r.SetBody(body)
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

// Post issues an outbound POST with trace headers injected and the call
// recorded on a client span.
func Post(ctx context.Context, url string, opts ...RequestOption) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "http.Post", trace.WithAttributes(
		attribute.String("http.method", "POST"),
		attribute.String("http.url", url),
	))
	defer span.End()

	request := getClient().R().SetContext(ctx)
	for _, opt := range opts {
		opt(request)
	}
	injectTracingHeaders(ctx, request)

	resp, err := request.Post(url)
	recordSpan(span, resp, err)
	return resp, err
}

func recordSpan(span trace.Span, resp *resty.Response, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if resp == nil {
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
		return
	}
	span.SetStatus(codes.Ok, "")
}
