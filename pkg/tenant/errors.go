package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found by id or slug.
	ErrTenantNotFound = errors.New("tenant: not found")

	// ErrSlugTaken is returned by Create when the slug already exists.
	ErrSlugTaken = errors.New("tenant: slug already taken")

	// ErrSchemaTaken is returned by Create when the schema name collides.
	ErrSchemaTaken = errors.New("tenant: schema name already taken")

	// ErrInactiveTenant is returned when an operation requires an active
	// tenant but the resolved row is suspended or deleted.
	ErrInactiveTenant = errors.New("tenant: not active")

	// ErrInvalidStatusTransition is returned by UpdateStatus when the
	// requested transition is not legal from the tenant's current status.
	ErrInvalidStatusTransition = errors.New("tenant: invalid status transition")

	// ErrInvalidSchemaName is returned when a schema name fails the
	// tenant_<slug>_<suffix> pattern validation.
	ErrInvalidSchemaName = errors.New("tenant: invalid schema name")
)
