package jwt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeUnverified decodes the claims segment of tokenString into claims
// without checking the signature. It exists for the narrow case where a
// routing decision needs a claim hint (e.g. which tenant secret to verify
// with) before the credential itself can be verified; callers must still
// call Parse with the resolved key before trusting anything it decoded.
func DecodeUnverified(tokenString string, claims any) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return fmt.Errorf("failed to decode claims: %w", err)
	}

	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	return nil
}
