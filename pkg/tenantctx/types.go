package tenantctx

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies either a business role held by an end user or one of the
// synthetic system roles used by background work.
type Role string

const (
	// Business roles, authoritative from the user directory.
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleAnalyst Role = "ANALYST"
	RoleStaff   Role = "STAFF"

	// System roles. A context carrying one of these is never tied to an
	// end-user session; it is established explicitly by a background job
	// or migration runner via Run.
	RoleSystemMigration Role = "SYSTEM_MIGRATION"
	RoleSystemJob       Role = "SYSTEM_JOB"
	RoleSystemReadonly  Role = "SYSTEM_READONLY"
)

// IsSystem reports whether r is one of the synthetic system roles.
func (r Role) IsSystem() bool {
	switch r {
	case RoleSystemMigration, RoleSystemJob, RoleSystemReadonly:
		return true
	default:
		return false
	}
}

// Context is the ambient, per-operation identity carrier. It is immutable
// once established: nothing in this package mutates a Context's fields in
// place, and elevating scope (e.g. lobby to tenant-bound) always produces a
// new value installed via Run.
type Context struct {
	// TenantID is nil for the lobby and for system work that is not scoped
	// to a single tenant.
	TenantID *uuid.UUID
	// SchemaName is "public" for lobby/system-wide work, otherwise the
	// tenant's physical schema name.
	SchemaName string
	UserID     string
	UserEmail  string
	Role       Role
	RequestID  string
	IssuedAt   time.Time
}

// IsSystem reports whether this context carries a system identity.
func (c Context) IsSystem() bool {
	return c.Role.IsSystem()
}

// HasTenant reports whether this context is bound to a specific tenant.
func (c Context) HasTenant() bool {
	return c.TenantID != nil
}
