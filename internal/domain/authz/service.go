package authz

import (
	"context"
)

// TokenVerifier validates a bearer header against the identity provider.
// Implemented by internal/infra/identity.
type TokenVerifier interface {
	Verify(ctx context.Context, bearerHeader string) (*VerifiedClaims, error)
}

type Service interface {
	// RequireRole verifies the bearer header and enforces the role
	// allow-list. super_admin satisfies any non-empty allow-list.
	RequireRole(ctx context.Context, bearerHeader string, allowedRoles []string) (*VerifiedClaims, error)

	// ResolveEffectiveOrg returns the org the request is allowed to act on.
	// The caller-supplied org is untrusted: it may confirm the claim org but
	// never select a different one. There is no super_admin bypass here.
	ResolveEffectiveOrg(claims *VerifiedClaims, untrustedOrgID string) (string, error)
}

type service struct {
	verifier TokenVerifier
}

func NewService(verifier TokenVerifier) Service {
	return &service{verifier: verifier}
}

func (s *service) RequireRole(
	ctx context.Context,
	bearerHeader string,
	allowedRoles []string,
) (*VerifiedClaims, error) {
	claims, err := s.verifier.Verify(ctx, bearerHeader)
	if err != nil {
		return nil, err
	}

	if claims.Role == "" {
		return nil, ErrMissingRoleClaim
	}

	if claims.Role == RoleSuperAdmin {
		return claims, nil
	}

	for _, role := range allowedRoles {
		if claims.Role == role {
			return claims, nil
		}
	}

	return nil, ErrInsufficientRole
}

func (s *service) ResolveEffectiveOrg(claims *VerifiedClaims, untrustedOrgID string) (string, error) {
	if claims.OrgID == "" {
		return "", ErrMissingOrgClaim
	}

	if untrustedOrgID != "" && untrustedOrgID != claims.OrgID {
		return "", ErrOrgMismatch
	}

	return claims.OrgID, nil
}
