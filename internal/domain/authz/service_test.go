package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/careloop/mcp-gateway/internal/domain/authz"
)

type mockVerifier struct {
	claims *authz.VerifiedClaims
	err    error
}

func (m *mockVerifier) Verify(_ context.Context, _ string) (*authz.VerifiedClaims, error) {
	return m.claims, m.err
}

func TestRequireRole_VerifierFailurePropagates(t *testing.T) {
	svc := authz.NewService(&mockVerifier{err: authz.ErrInvalidToken})

	_, err := svc.RequireRole(context.Background(), "Bearer bad", []string{authz.RoleOrgAdmin})
	if !errors.Is(err, authz.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRequireRole_MissingRoleClaim(t *testing.T) {
	svc := authz.NewService(&mockVerifier{
		claims: &authz.VerifiedClaims{SubjectID: "user-1", OrgID: "org-42"},
	})

	_, err := svc.RequireRole(context.Background(), "Bearer t", []string{authz.RoleOrgAdmin})
	if !errors.Is(err, authz.ErrMissingRoleClaim) {
		t.Fatalf("expected ErrMissingRoleClaim, got %v", err)
	}
}

func TestRequireRole_InsufficientRole(t *testing.T) {
	svc := authz.NewService(&mockVerifier{
		claims: &authz.VerifiedClaims{SubjectID: "user-1", Role: "client", OrgID: "org-42"},
	})

	_, err := svc.RequireRole(context.Background(), "Bearer t", []string{authz.RoleOrgAdmin, authz.RoleCaseWorker})
	if !errors.Is(err, authz.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestRequireRole_AllowedRole(t *testing.T) {
	svc := authz.NewService(&mockVerifier{
		claims: &authz.VerifiedClaims{SubjectID: "user-1", Role: authz.RoleCaseWorker, OrgID: "org-42"},
	})

	claims, err := svc.RequireRole(context.Background(), "Bearer t", []string{authz.RoleOrgAdmin, authz.RoleCaseWorker})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SubjectID != "user-1" {
		t.Errorf("expected claims to pass through, got %+v", claims)
	}
}

// super_admin must pass any non-empty allow-list, even one that does not
// literally contain it.
func TestRequireRole_SuperAdminOverridesAnyAllowList(t *testing.T) {
	svc := authz.NewService(&mockVerifier{
		claims: &authz.VerifiedClaims{SubjectID: "admin-1", Role: authz.RoleSuperAdmin},
	})

	claims, err := svc.RequireRole(context.Background(), "Bearer t", []string{authz.RoleCaseWorker})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Role != authz.RoleSuperAdmin {
		t.Errorf("expected super_admin claims, got %+v", claims)
	}
}

func TestResolveEffectiveOrg_MissingOrgClaim(t *testing.T) {
	svc := authz.NewService(&mockVerifier{})

	_, err := svc.ResolveEffectiveOrg(&authz.VerifiedClaims{SubjectID: "u", Role: authz.RoleCaseWorker}, "")
	if !errors.Is(err, authz.ErrMissingOrgClaim) {
		t.Fatalf("expected ErrMissingOrgClaim, got %v", err)
	}
}

// Role override does not imply org override: super_admin with no org claim
// still fails the org check.
func TestResolveEffectiveOrg_NoSuperAdminBypass(t *testing.T) {
	svc := authz.NewService(&mockVerifier{})

	_, err := svc.ResolveEffectiveOrg(&authz.VerifiedClaims{SubjectID: "admin", Role: authz.RoleSuperAdmin}, "org-42")
	if !errors.Is(err, authz.ErrMissingOrgClaim) {
		t.Fatalf("expected ErrMissingOrgClaim, got %v", err)
	}
}

func TestResolveEffectiveOrg_Mismatch(t *testing.T) {
	svc := authz.NewService(&mockVerifier{})

	_, err := svc.ResolveEffectiveOrg(
		&authz.VerifiedClaims{SubjectID: "u", Role: authz.RoleCaseWorker, OrgID: "org-42"},
		"org-99",
	)
	if !errors.Is(err, authz.ErrOrgMismatch) {
		t.Fatalf("expected ErrOrgMismatch, got %v", err)
	}
}

func TestResolveEffectiveOrg_BodyOrgConfirmsClaim(t *testing.T) {
	svc := authz.NewService(&mockVerifier{})

	org, err := svc.ResolveEffectiveOrg(
		&authz.VerifiedClaims{SubjectID: "u", Role: authz.RoleCaseWorker, OrgID: "org-42"},
		"org-42",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != "org-42" {
		t.Errorf("expected org-42, got %s", org)
	}
}

func TestResolveEffectiveOrg_BodyOrgAbsentUsesClaim(t *testing.T) {
	svc := authz.NewService(&mockVerifier{})

	org, err := svc.ResolveEffectiveOrg(
		&authz.VerifiedClaims{SubjectID: "u", Role: authz.RoleCaseWorker, OrgID: "org-42"},
		"",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != "org-42" {
		t.Errorf("expected org-42, got %s", org)
	}
}
