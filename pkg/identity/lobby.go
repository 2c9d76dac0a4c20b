package identity

import (
	"fmt"
	"time"

	"github.com/meridianhq/platform/pkg/jwt"
)

// lobbyTokenTTL is short: a lobby token exists only to let a freshly
// registered or not-yet-provisioned user list their candidate tenants
// before picking one, not to carry a session.
const lobbyTokenTTL = 10 * time.Minute

// IssueLobbyToken mints a tenant-less credential for a user who has not yet
// been attached to a tenant. It is always signed with the platform key,
// never a tenant's, and carries no TenantID or SchemaName claim, so
// Resolver.verify treats it as a lobby credential and Claims.IsLobby
// reports true for it. The classifier must scope routes accepting this
// token to GET /tenants/mine; every other route requires a tenant-bound
// credential.
func IssueLobbyToken(platformSecret []byte, userID, email string) (string, error) {
	platformJWT, err := jwt.New(platformSecret)
	if err != nil {
		return "", fmt.Errorf("identity: platform signing key: %w", err)
	}

	now := time.Now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(lobbyTokenTTL).Unix(),
		},
		Email: email,
	}

	tok, err := platformJWT.Generate(claims)
	if err != nil {
		return "", fmt.Errorf("identity: generate lobby token: %w", err)
	}
	return tok, nil
}
