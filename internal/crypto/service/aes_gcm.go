package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// AES-GCM combines the confidentiality of AES with GMAC authenticity and is
// hardware-accelerated on most modern CPUs. Each encryption generates a fresh
// 12-byte IV; the ciphertext carries a 16-byte authentication tag.
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits) and should be generated using
// crypto/rand.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with optional additional authenticated data.
//
// The AAD is authenticated but not encrypted; pass nil if no additional data
// needs to be bound to the ciphertext. A unique 12-byte IV is generated per
// call with crypto/rand and must be stored alongside the ciphertext. With GCM
// it is critical that IVs are never reused with the same key.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	ciphertext = a.aead.Seal(nil, iv, plaintext, aad)
	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext using the provided IV and AAD.
//
// The authentication tag is verified before any plaintext is returned, so a
// tampered ciphertext yields an error and no partial data.
func (a *AESGCMCipher) Decrypt(ciphertext, iv, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
