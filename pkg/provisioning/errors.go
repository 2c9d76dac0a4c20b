package provisioning

import "errors"

var (
	// ErrOwnerNotFound is returned when the owner user id does not exist.
	ErrOwnerNotFound = errors.New("provisioning: owner user not found")

	// ErrOwnerAlreadyProvisioned is returned when the owner already has a
	// tenant attached.
	ErrOwnerAlreadyProvisioned = errors.New("provisioning: owner already belongs to a tenant")

	// ErrMigrationFailed is returned when the tenant schema's template
	// migration fails. By the time this is returned, the coordinator has
	// already attempted the full compensating rollback.
	ErrMigrationFailed = errors.New("provisioning: tenant schema migration failed")
)
