package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/careloop/mcp-gateway/internal/domain/authz"
	"github.com/coreos/go-oidc/v3/oidc"
)

const bearerPrefix = "Bearer "

// Verifier validates bearer tokens against an OIDC issuer. The provider
// handle (remote discovery + JWKS) is constructed lazily on first use;
// construction failures are retryable on later calls.
type Verifier struct {
	issuer   string
	audience string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func NewVerifier(issuer, audience string) *Verifier {
	return &Verifier{
		issuer:   strings.TrimSuffix(issuer, "/"),
		audience: audience,
	}
}

// customClaims are passed through verbatim; vocabulary validation happens
// only at issuance time.
type customClaims struct {
	Role  string `json:"role"`
	OrgID string `json:"org_id"`
	Email string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, bearerHeader string) (*authz.VerifiedClaims, error) {
	if bearerHeader == "" || !strings.HasPrefix(bearerHeader, bearerPrefix) {
		return nil, authz.ErrMissingAuthHeader
	}
	rawToken := strings.TrimSpace(strings.TrimPrefix(bearerHeader, bearerPrefix))
	if rawToken == "" {
		return nil, authz.ErrMissingAuthHeader
	}

	idv, err := v.idTokenVerifier(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity provider init: %w", err)
	}

	token, err := idv.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authz.ErrInvalidToken, err)
	}

	var custom customClaims
	if err := token.Claims(&custom); err != nil {
		return nil, fmt.Errorf("%w: %v", authz.ErrInvalidToken, err)
	}

	return &authz.VerifiedClaims{
		SubjectID: token.Subject,
		Role:      custom.Role,
		OrgID:     custom.OrgID,
		Email:     custom.Email,
	}, nil
}

// idTokenVerifier initializes the provider exactly once; concurrent first
// callers serialize on the mutex so the handle is never built twice.
func (v *Verifier) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.verifier != nil {
		return v.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.audience})
	return v.verifier, nil
}
