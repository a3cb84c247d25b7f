package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpclient "github.com/careloop/mcp-gateway/pkg/http"
)

// ErrUpstreamUnroutable means the registry resolved a base URL but the
// upstream does not implement the expected route. Distinguished from a
// generic transport failure so misconfigured registry entries are
// diagnosable.
var ErrUpstreamUnroutable = errors.New("upstream route not implemented")

// Payload is the outbound body. OrgID is always the trust-resolved org,
// never the caller-supplied one.
type Payload struct {
	ToolID string          `json:"toolId"`
	OrgID  string          `json:"orgId"`
	Input  json.RawMessage `json:"input,omitempty"`
	Meta   json.RawMessage `json:"meta,omitempty"`
}

// Response carries the upstream outcome for verbatim relay: status,
// content type and raw body, no re-serialization.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

type Forwarder interface {
	Forward(ctx context.Context, targetURL string, payload Payload, authHeader, requestID string) (*Response, error)
}

type forwarder struct {
	timeout time.Duration
}

func NewForwarder(timeout time.Duration) Forwarder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &forwarder{timeout: timeout}
}

func (f *forwarder) Forward(
	ctx context.Context,
	targetURL string,
	payload Payload,
	authHeader string,
	requestID string,
) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := httpclient.Post(ctx, targetURL,
		httpclient.WithHeader("Authorization", authHeader),
		httpclient.WithHeader("X-Request-Id", requestID),
		httpclient.WithBody(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("upstream call failed: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnroutable, targetURL)
	}

	return &Response{
		Status:      resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}
