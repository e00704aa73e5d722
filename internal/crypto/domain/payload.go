package domain

import (
	"time"
)

// EncryptedPayload is the sealed form of a sensitive configuration value.
//
// A payload is immutable once created: decryption and integrity validation
// never mutate it, and re-encryption under a different key produces a new
// payload. The Tag binds the ciphertext to its IV and key id, so a payload
// cannot be replayed under a different key without detection.
type EncryptedPayload struct {
	// Ciphertext contains the AEAD-encrypted value, authentication tag included.
	Ciphertext []byte `json:"ciphertext"`
	// IV is the random initialization vector generated for this encryption.
	IV []byte `json:"iv"`
	// KeyID identifies the provider key whose material encrypted this payload.
	KeyID string `json:"key_id"`
	// Tag is the HMAC-SHA256 integrity tag over {ciphertext, IV, key id}.
	Tag []byte `json:"tag"`
	// Algorithm names the AEAD used ("aes-gcm" or "chacha20-poly1305").
	Algorithm Algorithm `json:"algorithm"`
	// Version is the payload format version for forward compatibility.
	Version int `json:"version"`
	// EncryptedAt is the UTC timestamp when this payload was created.
	EncryptedAt time.Time `json:"encrypted_at"`
}

// Clone returns a deep copy of the payload. Store operations hand payloads
// across goroutine boundaries, so callers copy instead of sharing slices.
func (p *EncryptedPayload) Clone() *EncryptedPayload {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Ciphertext = append([]byte(nil), p.Ciphertext...)
	clone.IV = append([]byte(nil), p.IV...)
	clone.Tag = append([]byte(nil), p.Tag...)
	return &clone
}
