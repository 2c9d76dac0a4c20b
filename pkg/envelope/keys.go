package envelope

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size in bytes of master keys, tenant secrets, and
	// derived AES-256 keys.
	KeySize = 32

	// wrapInfo provides domain separation for the HKDF expansion used to
	// derive the AES key that wraps a tenant secret. Changing it would
	// invalidate every previously-wrapped secret.
	wrapInfo = "meridian-envelope-wrap-v1"

	// wrapSalt is fixed rather than random: the master key itself is the
	// only secret input, and a fixed salt keeps wrapping deterministic
	// across processes without needing to persist a salt alongside the
	// ciphertext.
	wrapSalt = "meridian-envelope-salt-v1"
)

// ValidateMasterKey checks that masterKey is KeySize bytes. Call once at
// startup; a mismatch is a fatal boot error, not a runtime condition to
// recover from.
func ValidateMasterKey(masterKey []byte) error {
	if len(masterKey) != KeySize {
		return ErrInvalidMasterKey
	}
	return nil
}

// GenerateTenantSecret returns 32 cryptographically random bytes suitable
// for use as a tenant's field-encryption key.
func GenerateTenantSecret() ([]byte, error) {
	secret := make([]byte, KeySize)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// deriveWrapKey expands masterKey into the AES-256 key used to wrap and
// unwrap tenant secrets.
func deriveWrapKey(masterKey []byte) ([]byte, error) {
	if err := ValidateMasterKey(masterKey); err != nil {
		return nil, err
	}

	r := hkdf.New(sha256.New, masterKey, []byte(wrapSalt), []byte(wrapInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}
