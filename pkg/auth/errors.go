package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for a bad email/password pair. It
	// is deliberately the same error for "no such user" and "wrong
	// password" so a caller can never distinguish the two from the error
	// alone.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")

	// ErrEmailAlreadyExists is returned when Register targets an email
	// already present in the directory.
	ErrEmailAlreadyExists = errors.New("auth: email already registered")

	// ErrTokenInvalid is returned when a password-reset token fails
	// signature verification or carries the wrong subject.
	ErrTokenInvalid = errors.New("auth: invalid or malformed reset token")

	// ErrTokenExpired is returned when a password-reset token's embedded
	// expiry has passed.
	ErrTokenExpired = errors.New("auth: reset token has expired")
)
