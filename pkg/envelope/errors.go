package envelope

import "errors"

var (
	// ErrInvalidMasterKey is returned when the master key is not KeySize bytes.
	ErrInvalidMasterKey = errors.New("envelope: invalid master key: must be 32 bytes")

	// ErrInvalidTenantSecret is returned when a tenant secret is not KeySize bytes.
	ErrInvalidTenantSecret = errors.New("envelope: invalid tenant secret: must be 32 bytes")

	// ErrMalformedCiphertext is returned when a blob does not have the
	// nonceHex:tagHex:ciphertextHex shape.
	ErrMalformedCiphertext = errors.New("envelope: malformed ciphertext")

	// ErrDecryptionFailed is returned when the authentication tag does not
	// verify. This is always fatal for the caller; it is never logged and
	// continued, and never surfaces a partially-decrypted value.
	ErrDecryptionFailed = errors.New("envelope: decryption failed")

	// ErrKeyDerivationFailed is returned when HKDF expansion fails.
	ErrKeyDerivationFailed = errors.New("envelope: key derivation failed")
)
