package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careloop/mcp-gateway/internal/domain/relay"
)

func TestForward_RelaysUpstreamVerbatim(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotRequestID string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"resume":"done"}`))
	}))
	defer upstream.Close()

	fwd := relay.NewForwarder(5 * time.Second)
	resp, err := fwd.Forward(context.Background(), upstream.URL+"/execute", relay.Payload{
		ToolID: "resume-writer",
		OrgID:  "org-42",
		Input:  json.RawMessage(`{"q":1}`),
	}, "Bearer caller-token", "req-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Status)
	}
	if resp.ContentType != "application/json" {
		t.Errorf("expected application/json, got %s", resp.ContentType)
	}
	if string(resp.Body) != `{"resume":"done"}` {
		t.Errorf("expected verbatim body, got %s", resp.Body)
	}

	if gotAuth != "Bearer caller-token" {
		t.Errorf("expected Authorization passthrough, got %q", gotAuth)
	}
	if gotRequestID != "req-abc" {
		t.Errorf("expected X-Request-Id, got %q", gotRequestID)
	}
	if gotBody["orgId"] != "org-42" {
		t.Errorf("expected resolved org in forwarded body, got %v", gotBody["orgId"])
	}
}

func TestForward_NonOKStatusRelayedNotSwallowed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer upstream.Close()

	fwd := relay.NewForwarder(5 * time.Second)
	resp, err := fwd.Forward(context.Background(), upstream.URL+"/execute", relay.Payload{
		ToolID: "resume-writer",
		OrgID:  "org-42",
	}, "Bearer t", "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 relayed, got %d", resp.Status)
	}
	if string(resp.Body) != `{"error":"bad input"}` {
		t.Errorf("expected upstream error body, got %s", resp.Body)
	}
}

func TestForward_Upstream404IsUnroutable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	fwd := relay.NewForwarder(5 * time.Second)
	_, err := fwd.Forward(context.Background(), upstream.URL+"/mcp/tools/resume-writer", relay.Payload{
		ToolID: "resume-writer",
		OrgID:  "org-42",
	}, "Bearer t", "req-1")
	if !errors.Is(err, relay.ErrUpstreamUnroutable) {
		t.Fatalf("expected ErrUpstreamUnroutable, got %v", err)
	}
}

func TestForward_ConnectionRefused(t *testing.T) {
	fwd := relay.NewForwarder(2 * time.Second)
	_, err := fwd.Forward(context.Background(), "http://127.0.0.1:1/execute", relay.Payload{
		ToolID: "resume-writer",
		OrgID:  "org-42",
	}, "Bearer t", "req-1")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, relay.ErrUpstreamUnroutable) {
		t.Errorf("transport failure must not be classified as unroutable: %v", err)
	}
}
