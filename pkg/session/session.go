// Package session persists the opaque, DB-backed refresh tokens
// POST /auth/refresh exchanges for a fresh access/refresh pair. It is a
// deliberately narrow adaptation of the teacher's general-purpose session
// store: one row per refresh token, rather than an arbitrary key/value
// session bag, since this module has no server-side session state beyond
// the credential itself.
package session

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a row in public.refresh_tokens: one outstanding
// credential for one user, scoped to the tenant it was issued under.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TenantID  uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// NewRefreshToken builds a RefreshToken with a fresh id and CreatedAt.
func NewRefreshToken(token string, userID, tenantID uuid.UUID, ttl time.Duration) *RefreshToken {
	now := time.Now()
	return &RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TenantID:  tenantID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired reports whether rt has passed its expiry.
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked reports whether rt has been explicitly revoked.
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid reports whether rt may still be redeemed for a new credential
// pair.
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
