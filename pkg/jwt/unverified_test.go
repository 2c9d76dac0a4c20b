package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/platform/pkg/jwt"
)

func TestDecodeUnverifiedReadsClaimsWithoutSignature(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("real-signing-key")
	require.NoError(t, err)

	type claims struct {
		Sub      string `json:"sub"`
		TenantID string `json:"tenantId"`
	}

	token, err := svc.Generate(claims{Sub: "user-1", TenantID: "tenant-a"})
	require.NoError(t, err)

	var got claims
	require.NoError(t, jwt.DecodeUnverified(token, &got))
	assert.Equal(t, "user-1", got.Sub)
	assert.Equal(t, "tenant-a", got.TenantID)
}

func TestDecodeUnverifiedRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	var got map[string]any
	err := jwt.DecodeUnverified("not-a-jwt", &got)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
