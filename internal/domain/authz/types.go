package authz

import "errors"

// Gateway role vocabulary. Independent from the issuance vocabulary in the
// claims package; the two must not be conflated.
const (
	RoleSuperAdmin = "super_admin"
	RoleOrgAdmin   = "org_admin"
	RoleCaseWorker = "case_worker"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingRoleClaim  = errors.New("missing role claim")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrMissingOrgClaim   = errors.New("missing org claim")
	ErrOrgMismatch       = errors.New("org mismatch")
)

// VerifiedClaims is the only trusted identity representation downstream of
// token verification. It is produced exclusively by validating a bearer
// credential against the identity provider and is never constructed from
// request body fields. Empty Role/OrgID/Email mean the claim is absent.
type VerifiedClaims struct {
	SubjectID string
	Role      string
	OrgID     string
	Email     string
}
