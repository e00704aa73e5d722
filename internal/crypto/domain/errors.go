package domain

import (
	"github.com/allisson/configvault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so callers can distinguish "you're not allowed" from "the data is
// corrupted" from "the key is gone" with errors.Is.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidArgument, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All key material must be exactly 32 bytes (256 bits) for both
	// AES-256-GCM and ChaCha20-Poly1305.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidArgument, "invalid key size")

	// ErrEmptyPlaintext indicates an encrypt call received no data.
	ErrEmptyPlaintext = errors.Wrap(errors.ErrInvalidArgument, "empty plaintext")

	// ErrPayloadTampered indicates the payload integrity tag did not match.
	// The payload has been modified, truncated, or bound to a different key.
	ErrPayloadTampered = errors.Wrap(errors.ErrIntegrityViolation, "payload tampered")

	// ErrDecryptionFailed indicates a decryption operation failed after the
	// integrity tag verified, e.g. AEAD authentication failure under a rotated
	// provider key. The specific cause is not disclosed to prevent information
	// leakage.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrityViolation, "decryption failed")

	// ErrKeyUnavailable indicates the provider knows the key id but the key is
	// disabled or expired.
	ErrKeyUnavailable = errors.Wrap(errors.ErrKeyNotFound, "key unavailable")
)
