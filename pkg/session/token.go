package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/meridianhq/platform/pkg/token"
)

// refreshNoncePayload is the value signed into an opaque refresh token.
// The signature guards against tampering in transit; the token's actual
// validity is decided by the DB row it is looked up against, not by
// anything recoverable from the payload itself.
type refreshNoncePayload struct {
	Nonce string `json:"n"`
}

// GenerateOpaqueToken mints a fresh, HMAC-signed opaque refresh token.
// secret must differ from both the platform JWT key and any tenant
// signing secret, since this token authenticates against public.refresh_tokens,
// not against a JWT claim set.
func GenerateOpaqueToken(secret string) (string, error) {
	nonce := make([]byte, 24)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session: generate nonce: %w", err)
	}
	payload := refreshNoncePayload{Nonce: base64.RawURLEncoding.EncodeToString(nonce)}
	return token.GenerateToken(payload, secret)
}
