package claims

import (
	"errors"
	"time"
)

// Issuance role vocabulary. Distinct from the gateway's route allow-list.
var validRoles = map[string]bool{
	"super_admin": true,
	"org_admin":   true,
	"staff":       true,
	"client":      true,
}

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrNotSuperAdmin    = errors.New("only super_admin may issue roles")
	ErrMissingTargetUID = errors.New("target uid is required")
	ErrSelfEscalation   = errors.New("self-escalation not allowed")
	ErrInvalidRole      = errors.New("invalid role")
)

// RoleClaims is the persisted authorization state attached to a subject.
// Overwritten whole on each issuance; never partially updated.
type RoleClaims struct {
	Roles    []string            `json:"roles"`
	OrgRoles map[string][]string `json:"orgRoles"`
}

// AuditEntry records one claims issuance. Appended best-effort: a failed
// append never rolls back the claims write.
type AuditEntry struct {
	ActorID       string     `json:"actorId"`
	TargetID      string     `json:"targetId"`
	Action        string     `json:"action"`
	Claims        RoleClaims `json:"claims"`
	OrgID         string     `json:"orgId,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	RetentionDays int        `json:"retentionDays"`
}

// Assignment echoes what was written, after validation. It is not re-read
// from storage.
type Assignment struct {
	UID    string     `json:"uid"`
	Claims RoleClaims `json:"claims"`
}
