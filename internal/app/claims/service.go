package claims

import (
	"context"
	"fmt"

	"github.com/careloop/mcp-gateway/internal/domain/authz"
	domain "github.com/careloop/mcp-gateway/internal/domain/claims"
	"github.com/careloop/mcp-gateway/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	// Assign verifies the caller's bearer credential, then delegates to the
	// domain issuer.
	Assign(ctx context.Context, bearerHeader string, cmd domain.AssignCommand) (*domain.Assignment, error)

	// Lookup returns a subject's persisted claims. super_admin only.
	Lookup(ctx context.Context, bearerHeader, uid string) (*domain.RoleClaims, error)
}

type service struct {
	verifier authz.TokenVerifier
	issuer   domain.Service
}

func NewService(verifier authz.TokenVerifier, issuer domain.Service) Service {
	return &service{verifier: verifier, issuer: issuer}
}

func (s *service) Assign(
	ctx context.Context,
	bearerHeader string,
	cmd domain.AssignCommand,
) (*domain.Assignment, error) {
	ctx, span := tracer.Start(ctx, "app.claims.Assign")
	defer span.End()

	span.SetAttributes(attribute.String("claims.target_uid", cmd.TargetUID))

	caller, err := s.verifier.Verify(ctx, bearerHeader)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	assignment, err := s.issuer.Assign(ctx, caller, cmd)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("claims.actor_uid", caller.SubjectID))
	return assignment, nil
}

func (s *service) Lookup(ctx context.Context, bearerHeader, uid string) (*domain.RoleClaims, error) {
	ctx, span := tracer.Start(ctx, "app.claims.Lookup")
	defer span.End()

	caller, err := s.verifier.Verify(ctx, bearerHeader)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if caller.Role != authz.RoleSuperAdmin {
		return nil, domain.ErrNotSuperAdmin
	}

	return s.issuer.Lookup(ctx, uid)
}
