package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"
)

// nonceSize is the AES-GCM standard 96-bit nonce.
const nonceSize = 12

// seal encrypts plaintext under key and returns the wire format
// "nonceHex:tagHex:ciphertextHex". A fresh random nonce is generated for
// every call.
func seal(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	tagSize := aead.Overhead()
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, ":"), nil
}

// open is the inverse of seal. It fails with ErrDecryptionFailed if the tag
// does not verify; that failure is always fatal for the caller.
func open(key []byte, blob string) ([]byte, error) {
	parts := strings.Split(blob, ":")
	if len(parts) != 3 {
		return nil, ErrMalformedCiphertext
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, errors.Join(ErrMalformedCiphertext, err)
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Join(ErrMalformedCiphertext, err)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Join(ErrMalformedCiphertext, err)
	}
	if len(nonce) != nonceSize {
		return nil, ErrMalformedCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sealed := append(ciphertext, tag...)
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// Wrap encrypts a tenant secret under a key derived from the process master
// key. The result is what the tenant registry persists; it is never
// decrypted at rest.
func Wrap(tenantSecret, masterKey []byte) (string, error) {
	if len(tenantSecret) != KeySize {
		return "", ErrInvalidTenantSecret
	}
	key, err := deriveWrapKey(masterKey)
	if err != nil {
		return "", err
	}
	return seal(key, tenantSecret)
}

// Unwrap decrypts a tenant secret previously produced by Wrap.
func Unwrap(blob string, masterKey []byte) ([]byte, error) {
	key, err := deriveWrapKey(masterKey)
	if err != nil {
		return nil, err
	}
	return open(key, blob)
}

// EncryptField encrypts a single field value under a tenant's own secret.
// Used for at-rest protection of sensitive columns (customer name, invoice
// number, ...).
func EncryptField(plaintext string, tenantSecret []byte) (string, error) {
	if len(tenantSecret) != KeySize {
		return "", ErrInvalidTenantSecret
	}
	return seal(tenantSecret, []byte(plaintext))
}

// DecryptField is the inverse of EncryptField.
func DecryptField(blob string, tenantSecret []byte) (string, error) {
	if len(tenantSecret) != KeySize {
		return "", ErrInvalidTenantSecret
	}
	plaintext, err := open(tenantSecret, blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// IsEncryptedFormat reports whether s has the nonceHex:tagHex:ciphertextHex
// shape. A value without exactly two colons is legacy plaintext and must be
// treated as non-decryptable, never passed to DecryptField.
func IsEncryptedFormat(s string) bool {
	return strings.Count(s, ":") == 2
}
