package gateway

import (
	"context"
	"encoding/json"

	"github.com/careloop/mcp-gateway/internal/domain/authz"
	"github.com/careloop/mcp-gateway/internal/domain/relay"
	"github.com/careloop/mcp-gateway/internal/registry"
	"github.com/careloop/mcp-gateway/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// ExecuteCommand is one inbound tool-execution request. OrgID comes from the
// request body and is untrusted until resolved against the verified claims.
type ExecuteCommand struct {
	AuthHeader string
	RequestID  string
	// Upstream path suffix for the route variant, e.g. "/execute".
	Suffix string
	ToolID string
	OrgID  string
	Input  json.RawMessage
	Meta   json.RawMessage
}

// ExecuteResult is always returned, also on failure, so the transport can
// log whether the caller carried an org claim.
type ExecuteResult struct {
	Response    *relay.Response
	HasOrgClaim bool
}

type Service interface {
	Execute(ctx context.Context, cmd ExecuteCommand) (*ExecuteResult, error)
}

type service struct {
	guard        authz.Service
	registry     *registry.Registry
	forwarder    relay.Forwarder
	allowedRoles []string
}

func NewService(
	guard authz.Service,
	reg *registry.Registry,
	forwarder relay.Forwarder,
	allowedRoles []string,
) Service {
	return &service{
		guard:        guard,
		registry:     reg,
		forwarder:    forwarder,
		allowedRoles: allowedRoles,
	}
}

// Execute runs the pipeline: role check, org resolution, registry lookup,
// forward. Later stages never run after an earlier failure.
func (s *service) Execute(ctx context.Context, cmd ExecuteCommand) (*ExecuteResult, error) {
	ctx, span := tracer.Start(ctx, "app.gateway.Execute")
	defer span.End()

	span.SetAttributes(attribute.String("mcp.tool_id", cmd.ToolID))

	result := &ExecuteResult{}

	claims, err := s.guard.RequireRole(ctx, cmd.AuthHeader, s.allowedRoles)
	if err != nil {
		span.RecordError(err)
		return result, err
	}
	result.HasOrgClaim = claims.OrgID != ""

	org, err := s.guard.ResolveEffectiveOrg(claims, cmd.OrgID)
	if err != nil {
		span.RecordError(err)
		return result, err
	}

	baseURL, err := s.registry.Resolve(cmd.ToolID)
	if err != nil {
		span.RecordError(err)
		return result, err
	}

	payload := relay.Payload{
		ToolID: cmd.ToolID,
		OrgID:  org,
		Input:  cmd.Input,
		Meta:   cmd.Meta,
	}

	resp, err := s.forwarder.Forward(ctx, baseURL+cmd.Suffix, payload, cmd.AuthHeader, cmd.RequestID)
	if err != nil {
		span.RecordError(err)
		return result, err
	}

	span.SetAttributes(attribute.Int("mcp.upstream_status", resp.Status))
	result.Response = resp
	return result, nil
}
