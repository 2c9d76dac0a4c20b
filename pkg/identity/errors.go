package identity

import "errors"

var (
	// ErrUnauthorized is returned when a credential is missing where one is
	// optional-but-checked, or fails signature verification.
	ErrUnauthorized = errors.New("identity: unauthorized")

	// ErrForbidden is returned when a credential verifies but the operation
	// is not permitted: tenant inactive, or a tenant-bound route reached
	// with no credential at all.
	ErrForbidden = errors.New("identity: forbidden")

	// ErrCredentialExpired is returned when a syntactically valid, correctly
	// signed credential has passed its exp claim.
	ErrCredentialExpired = errors.New("identity: credential expired")

	// ErrMalformedCredential is returned when the bearer token cannot be
	// decoded at all, verified or not.
	ErrMalformedCredential = errors.New("identity: malformed credential")
)
