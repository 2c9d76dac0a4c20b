package directory

import "errors"

var (
	// ErrUserNotFound is returned when no row matches the given id or email.
	ErrUserNotFound = errors.New("directory: user not found")

	// ErrEmailTaken is returned on a unique violation for the email column.
	ErrEmailTaken = errors.New("directory: email already registered")

	// ErrAlreadyProvisioned is returned when a caller tries to attach a
	// tenant to a user whose TenantID is already set, or when a race loses
	// the conditional update during provisioning.
	ErrAlreadyProvisioned = errors.New("directory: user already provisioned")
)
