package claims

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/careloop/mcp-gateway/internal/domain/authz"
	"github.com/careloop/mcp-gateway/pkg/logger"
)

const actionSetUserClaims = "set_user_claims"

// Store persists RoleClaims keyed by subject id.
// Implemented by internal/infra/store.
type Store interface {
	Put(ctx context.Context, uid string, rc RoleClaims) error
	Get(ctx context.Context, uid string) (*RoleClaims, error)
}

// AuditSink appends issuance audit records.
type AuditSink interface {
	Append(ctx context.Context, entry AuditEntry) error
}

type AssignCommand struct {
	TargetUID string
	Roles     []string
	OrgRoles  map[string][]string
}

type Service interface {
	// Assign overwrites the target subject's persisted claims. This is the
	// only code path that mints role/org claims.
	Assign(ctx context.Context, caller *authz.VerifiedClaims, cmd AssignCommand) (*Assignment, error)

	// Lookup returns the persisted claims for a subject, or nil when none
	// have been issued.
	Lookup(ctx context.Context, uid string) (*RoleClaims, error)
}

type service struct {
	store         Store
	audit         AuditSink
	retentionDays int
	now           func() time.Time
}

func NewService(store Store, audit AuditSink, retentionDays int) Service {
	return &service{
		store:         store,
		audit:         audit,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *service) Assign(
	ctx context.Context,
	caller *authz.VerifiedClaims,
	cmd AssignCommand,
) (*Assignment, error) {
	if caller == nil || caller.SubjectID == "" {
		return nil, ErrUnauthenticated
	}

	if caller.Role != authz.RoleSuperAdmin {
		return nil, ErrNotSuperAdmin
	}

	if cmd.TargetUID == "" {
		return nil, ErrMissingTargetUID
	}

	// Checked unconditionally, even for super_admins.
	if cmd.TargetUID == caller.SubjectID {
		return nil, ErrSelfEscalation
	}

	safe, err := validateClaims(cmd.Roles, cmd.OrgRoles)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, cmd.TargetUID, safe); err != nil {
		return nil, fmt.Errorf("persist claims: %w", err)
	}

	entry := AuditEntry{
		ActorID:       caller.SubjectID,
		TargetID:      cmd.TargetUID,
		Action:        actionSetUserClaims,
		Claims:        safe,
		OrgID:         caller.OrgID,
		Timestamp:     s.now().UTC(),
		RetentionDays: s.retentionDays,
	}
	// Best-effort: the claims write already succeeded.
	if err := s.audit.Append(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "audit append failed",
			slog.String("actor_id", entry.ActorID),
			slog.String("target_id", entry.TargetID),
			slog.String("error", err.Error()),
		)
	}

	return &Assignment{UID: cmd.TargetUID, Claims: safe}, nil
}

func (s *service) Lookup(ctx context.Context, uid string) (*RoleClaims, error) {
	if uid == "" {
		return nil, ErrMissingTargetUID
	}
	return s.store.Get(ctx, uid)
}

// validateClaims enforces vocabulary closure over the flat roles list and
// every org's role list. Fail-fast: the first invalid entry fails the call.
func validateClaims(roles []string, orgRoles map[string][]string) (RoleClaims, error) {
	safeRoles := make([]string, 0, len(roles))
	for _, r := range roles {
		if !validRoles[r] {
			return RoleClaims{}, fmt.Errorf("%w: %s", ErrInvalidRole, r)
		}
		safeRoles = append(safeRoles, r)
	}

	safeOrgRoles := make(map[string][]string, len(orgRoles))
	for orgID, list := range orgRoles {
		safeList := make([]string, 0, len(list))
		for _, r := range list {
			if !validRoles[r] {
				return RoleClaims{}, fmt.Errorf("%w: %s", ErrInvalidRole, r)
			}
			safeList = append(safeList, r)
		}
		safeOrgRoles[orgID] = safeList
	}

	return RoleClaims{Roles: safeRoles, OrgRoles: safeOrgRoles}, nil
}
