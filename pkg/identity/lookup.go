package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/platform/pkg/tenant"
)

// TenantLookup is the subset of pkg/tenant.Registry that identity depends
// on. Declared here so tests can substitute a fake without standing up a
// database; *tenant.Registry satisfies this interface as-is.
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}
