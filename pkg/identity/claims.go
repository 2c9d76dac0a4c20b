package identity

import (
	"github.com/meridianhq/platform/pkg/jwt"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// Role is the directory role carried by a credential. It is the same type
// as tenantctx.Role; identity never defines its own role vocabulary.
type Role = tenantctx.Role

// TokenAccess and TokenRefresh distinguish a session access credential
// (accepted by every route Resolve authorizes) from a refresh credential
// (accepted only by POST /auth/refresh, which verifies it by hand since
// that route is public and never reaches Resolve). The zero value behaves
// as TokenAccess, so credentials minted before this field existed still
// verify.
const (
	TokenAccess  = ""
	TokenRefresh = "refresh"
)

// Claims is the wire shape of a credential: {sub, email, role, tenantId,
// schemaName, exp}. TenantID and SchemaName are empty for lobby tokens.
type Claims struct {
	jwt.StandardClaims
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	TenantID   string `json:"tenantId,omitempty"`
	SchemaName string `json:"schemaName,omitempty"`
	TokenType  string `json:"tokenType,omitempty"`
}

// IsRefresh reports whether these claims describe a refresh credential.
func (c Claims) IsRefresh() bool {
	return c.TokenType == TokenRefresh
}

// IsLobby reports whether these claims describe a lobby (tenant-less) credential.
func (c Claims) IsLobby() bool {
	return c.TenantID == ""
}
