package identity

import "context"

// DirectoryUser is the authoritative, current state of a user's directory
// row — the facts that may have changed since the credential was issued
// (tenant binding on first onboarding, role changes) and so must be
// re-read rather than trusted from the token.
type DirectoryUser struct {
	TenantID   string // empty for a lobby user
	SchemaName string // empty for a lobby user
	Role       Role
}

// Directory resolves the current directory row for an authenticated
// subject. Identity depends on this abstraction rather than a concrete user
// store, since user account storage and provisioning are separate
// subsystems built on top of this package.
type Directory interface {
	LookupUser(ctx context.Context, userID string) (DirectoryUser, error)
}
