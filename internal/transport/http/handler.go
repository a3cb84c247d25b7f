package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	gatewayapp "github.com/careloop/mcp-gateway/internal/app/gateway"
	"github.com/careloop/mcp-gateway/internal/domain/authz"
	"github.com/careloop/mcp-gateway/internal/domain/relay"
	"github.com/careloop/mcp-gateway/internal/registry"
	"github.com/careloop/mcp-gateway/pkg/logger"
	"github.com/careloop/mcp-gateway/pkg/tracer"
	"github.com/careloop/mcp-gateway/pkg/version"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	appService gatewayapp.Service
}

func NewHandler(appService gatewayapp.Service) *Handler {
	return &Handler{appService: appService}
}

type executeRequest struct {
	ToolID string          `json:"toolId"`
	OrgID  string          `json:"orgId"`
	Input  json.RawMessage `json:"input"`
	Meta   json.RawMessage `json:"meta"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": version.Version})
}

// Execute handles POST /mcp/execute; toolId comes from the body.
func (h *Handler) Execute(c *gin.Context) {
	req, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.run(c, req.ToolID, "/execute", req)
}

// ExecuteTool handles POST /mcp/tools/:toolId; toolId comes from the path
// and the same path is replayed against the upstream.
func (h *Handler) ExecuteTool(c *gin.Context) {
	toolID := c.Param("toolId")
	req, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.run(c, toolID, "/mcp/tools/"+toolID, req)
}

// ExecuteContext handles POST /mcp/context; toolId comes from the body.
func (h *Handler) ExecuteContext(c *gin.Context) {
	req, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.run(c, req.ToolID, "/context", req)
}

func (h *Handler) bindBody(c *gin.Context) (executeRequest, bool) {
	var req executeRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return req, false
	}
	return req, true
}

func (h *Handler) run(c *gin.Context, toolID, suffix string, req executeRequest) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Execute")
	defer span.End()

	if toolID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing toolId"})
		return
	}

	span.SetAttributes(attribute.String("mcp.tool_id", toolID))

	result, err := h.appService.Execute(ctx, gatewayapp.ExecuteCommand{
		AuthHeader: c.GetHeader("Authorization"),
		RequestID:  requestID(c),
		Suffix:     suffix,
		ToolID:     toolID,
		OrgID:      req.OrgID,
		Input:      req.Input,
		Meta:       req.Meta,
	})
	if result != nil {
		c.Set(ctxKeyHasOrgClaim, result.HasOrgClaim)
	}
	if err != nil {
		span.RecordError(err)
		h.writeError(c, toolID, err)
		return
	}

	// Content-Type mirrors the upstream exactly; nil suppresses net/http
	// sniffing when the upstream sent none.
	if result.Response.ContentType == "" {
		c.Writer.Header()["Content-Type"] = nil
	} else {
		c.Header("Content-Type", result.Response.ContentType)
	}
	c.Status(result.Response.Status)
	_, _ = c.Writer.Write(result.Response.Body)
}

// writeError maps pipeline failures to responses. Anything unrecognized,
// including upstream transport failures, collapses to 403 Forbidden.
func (h *Handler) writeError(c *gin.Context, toolID string, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownTool):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown toolId", "toolId": toolID})
	case errors.Is(err, relay.ErrUpstreamUnroutable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": fmt.Sprintf("Route not implemented for toolId %q; update registry mapping", toolID),
		})
	case errors.Is(err, authz.ErrOrgMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Org mismatch"})
	case errors.Is(err, authz.ErrMissingOrgClaim):
		c.JSON(http.StatusForbidden, gin.H{"error": "Missing org claim"})
	case errors.Is(err, authz.ErrMissingRoleClaim):
		c.JSON(http.StatusForbidden, gin.H{"error": "Missing role claim"})
	case errors.Is(err, authz.ErrInsufficientRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	case errors.Is(err, authz.ErrMissingAuthHeader):
		c.JSON(http.StatusForbidden, gin.H{"error": "Missing authorization header"})
	case errors.Is(err, authz.ErrInvalidToken):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
	default:
		logger.WarnContext(c.Request.Context(), "pipeline failure",
			slog.String("tool_id", toolID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
