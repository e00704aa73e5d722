// Package domain defines the core cryptographic domain models for the
// encryption service.
//
// Configuration values marked sensitive are encrypted with a per-payload
// random IV under key material resolved through an external KeyProvider.
// Every payload carries an HMAC integrity tag computed over the ciphertext,
// IV, and key id, so tampering is detected before decryption is attempted.
package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted data.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Hardware acceleration on modern CPUs
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Constant-time software implementation
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// PayloadFormatVersion is the current EncryptedPayload wire format version.
// Bumped whenever the canonical tag input or field layout changes, so old
// payloads remain identifiable and decryptable.
const PayloadFormatVersion = 1
