// Package envelope implements envelope encryption for per-tenant data keys
// and at-rest field encryption.
//
// A tenant secret is 32 random bytes generated once at provisioning time. It
// never touches disk in plaintext: Wrap encrypts it under a key derived from
// the process master key and the result is what the tenant registry stores.
// Unwrap is the inverse, run on demand by callers that need the tenant's
// live key. EncryptField/DecryptField use the unwrapped tenant secret
// directly to protect individual column values.
//
// All three operations share one wire format: "nonceHex:tagHex:ciphertextHex",
// three lowercase-hex fields joined by colons. A stored value without
// exactly two colons is legacy plaintext and must never be treated as
// decryptable.
package envelope
