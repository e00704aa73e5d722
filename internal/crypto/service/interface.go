// Package service implements the encryption service: AEAD ciphers
// (AES-256-GCM, ChaCha20-Poly1305), key providers, and the Encryptor that
// seals configuration values into integrity-tagged payloads.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and
	// the random IV generated for this call.
	Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error)

	// Decrypt decrypts ciphertext using the provided IV and AAD.
	Decrypt(ciphertext, iv, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Encryptor is the confidentiality/integrity primitive consumed by the
// secure configuration store. Calls that resolve keys may block on provider
// I/O and honor context cancellation.
type Encryptor interface {
	// Encrypt seals plaintext under the given key id (default key if empty).
	Encrypt(ctx context.Context, plaintext []byte, keyID string) (*cryptoDomain.EncryptedPayload, error)

	// Decrypt validates the payload integrity tag and returns the plaintext.
	// Never returns partially decrypted data on failure.
	Decrypt(ctx context.Context, payload *cryptoDomain.EncryptedPayload) ([]byte, error)

	// ValidateIntegrity recomputes the expected tag over {ciphertext, IV, key id}
	// and compares in constant time.
	ValidateIntegrity(ctx context.Context, payload *cryptoDomain.EncryptedPayload) (bool, error)

	// RotateKey verifies the new key resolves, makes it the default for new
	// encryptions, and evicts the old key's cached handle. Existing payloads
	// are not re-encrypted.
	RotateKey(ctx context.Context, oldKeyID, newKeyID string) error

	// Rewrap decrypts a payload and re-encrypts it under the given key,
	// for callers that want eager re-encryption after rotation.
	Rewrap(ctx context.Context, payload *cryptoDomain.EncryptedPayload, newKeyID string) (*cryptoDomain.EncryptedPayload, error)

	// ListAvailableKeys enumerates enabled, non-expired provider keys.
	ListAvailableKeys(ctx context.Context) ([]string, error)

	// DefaultKeyID returns the key id used when callers do not specify one.
	DefaultKeyID() string
}
