package session

import "errors"

var (
	// ErrTokenNotFound is returned when no row matches the given token.
	ErrTokenNotFound = errors.New("session: refresh token not found")

	// ErrTokenRevoked is returned when a refresh token was found but has
	// already been revoked (used once, or explicitly invalidated).
	ErrTokenRevoked = errors.New("session: refresh token revoked")

	// ErrTokenExpired is returned when a refresh token was found but its
	// ExpiresAt has passed.
	ErrTokenExpired = errors.New("session: refresh token expired")
)
