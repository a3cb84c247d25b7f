package handler

import (
	"errors"
	"net/http"

	claimsapp "github.com/careloop/mcp-gateway/internal/app/claims"
	domain "github.com/careloop/mcp-gateway/internal/domain/claims"
	"github.com/gin-gonic/gin"
)

// ClaimsHandler exposes the claims issuance surface consumed by admin
// tooling.
type ClaimsHandler struct {
	appService claimsapp.Service
}

func NewClaimsHandler(appService claimsapp.Service) *ClaimsHandler {
	return &ClaimsHandler{appService: appService}
}

type assignRequest struct {
	UID      string              `json:"uid"`
	Roles    []string            `json:"roles"`
	OrgRoles map[string][]string `json:"orgRoles"`
}

// Assign handles POST /admin/claims.
func (h *ClaimsHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	assignment, err := h.appService.Assign(c.Request.Context(), c.GetHeader("Authorization"), domain.AssignCommand{
		TargetUID: req.UID,
		Roles:     req.Roles,
		OrgRoles:  req.OrgRoles,
	})
	if err != nil {
		writeClaimsError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// Lookup handles GET /admin/claims/:uid.
func (h *ClaimsHandler) Lookup(c *gin.Context) {
	rc, err := h.appService.Lookup(c.Request.Context(), c.GetHeader("Authorization"), c.Param("uid"))
	if err != nil {
		writeClaimsError(c, err)
		return
	}
	if rc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No claims issued for uid", "uid": c.Param("uid")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uid": c.Param("uid"), "claims": rc})
}

func writeClaimsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
	case errors.Is(err, domain.ErrNotSuperAdmin), errors.Is(err, domain.ErrSelfEscalation):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingTargetUID), errors.Is(err, domain.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
