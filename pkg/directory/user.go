package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/platform/pkg/tenantctx"
)

// User is a row in the global public.users table: one per person, whether
// or not they have completed onboarding into a tenant.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string `json:"-"`
	FullName     string
	TenantID     *uuid.UUID
	SchemaName   string
	Role         tenantctx.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsProvisioned reports whether this user has been attached to a tenant.
func (u *User) IsProvisioned() bool {
	return u.TenantID != nil
}
