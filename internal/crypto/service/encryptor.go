package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// EncryptorService seals configuration values into EncryptedPayloads.
//
// Resolved key handles are cached by key id to avoid repeated provider
// round-trips; the cache is owned by the instance (no process-wide state) and
// guarded by a read-write mutex. RotateKey evicts the rotated-away entry so
// subsequent operations re-resolve through the provider.
//
// The integrity tag is an HMAC-SHA256 over the length-prefixed canonical form
// of {ciphertext, IV, key id}, keyed with an HKDF-SHA256 derivation of the key
// material. Deriving a separate signing key keeps encryption and signing key
// usage apart.
type EncryptorService struct {
	provider    cryptoDomain.KeyProvider
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm

	mu           sync.RWMutex
	handles      map[string]*cryptoDomain.KeyHandle
	defaultKeyID string
}

// NewEncryptor creates an EncryptorService using the given provider, cipher
// factory, payload algorithm, and default key id.
func NewEncryptor(
	provider cryptoDomain.KeyProvider,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
	defaultKeyID string,
) *EncryptorService {
	return &EncryptorService{
		provider:     provider,
		aeadManager:  aeadManager,
		algorithm:    algorithm,
		handles:      make(map[string]*cryptoDomain.KeyHandle),
		defaultKeyID: defaultKeyID,
	}
}

// DefaultKeyID returns the key id used when callers do not specify one.
func (e *EncryptorService) DefaultKeyID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.defaultKeyID
}

// resolveHandle returns the cached handle for keyID or resolves it through
// the provider, caching the result. Disabled or expired handles are evicted
// and re-resolved so a provider-side revocation takes effect.
func (e *EncryptorService) resolveHandle(ctx context.Context, keyID string) (*cryptoDomain.KeyHandle, error) {
	now := time.Now().UTC()

	e.mu.RLock()
	handle, ok := e.handles[keyID]
	e.mu.RUnlock()
	if ok && handle.Usable(now) {
		return handle, nil
	}

	handle, err := e.provider.GetKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if !handle.Usable(now) {
		return nil, apperrors.Wrapf(cryptoDomain.ErrKeyUnavailable, "key %q", keyID)
	}

	e.mu.Lock()
	e.handles[keyID] = handle
	e.mu.Unlock()

	return handle, nil
}

// evictHandle removes a cached handle and zeroes its material.
func (e *EncryptorService) evictHandle(keyID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if handle, ok := e.handles[keyID]; ok {
		cryptoDomain.Zero(handle.Material)
		delete(e.handles, keyID)
	}
}

// Encrypt seals plaintext under keyID (default key if empty) and returns an
// integrity-tagged payload.
func (e *EncryptorService) Encrypt(
	ctx context.Context,
	plaintext []byte,
	keyID string,
) (*cryptoDomain.EncryptedPayload, error) {
	if len(plaintext) == 0 {
		return nil, cryptoDomain.ErrEmptyPlaintext
	}
	if keyID == "" {
		keyID = e.DefaultKeyID()
	}
	if keyID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidArgument, "no key id and no default key configured")
	}

	handle, err := e.resolveHandle(ctx, keyID)
	if err != nil {
		return nil, err
	}

	cipher, err := e.aeadManager.CreateCipher(handle.Material, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, iv, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	tag, err := computeIntegrityTag(handle.Material, ciphertext, iv, keyID)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.EncryptedPayload{
		Ciphertext:  ciphertext,
		IV:          iv,
		KeyID:       keyID,
		Tag:         tag,
		Algorithm:   e.algorithm,
		Version:     cryptoDomain.PayloadFormatVersion,
		EncryptedAt: time.Now().UTC(),
	}, nil
}

// Decrypt validates payload integrity and returns the plaintext. A tag
// mismatch fails with ErrPayloadTampered before any decryption is attempted,
// so partially decrypted data is never returned.
func (e *EncryptorService) Decrypt(
	ctx context.Context,
	payload *cryptoDomain.EncryptedPayload,
) ([]byte, error) {
	if payload == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidArgument, "nil payload")
	}

	valid, err := e.ValidateIntegrity(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, cryptoDomain.ErrPayloadTampered
	}

	handle, err := e.resolveHandle(ctx, payload.KeyID)
	if err != nil {
		return nil, err
	}

	cipher, err := e.aeadManager.CreateCipher(handle.Material, payload.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(payload.Ciphertext, payload.IV, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// ValidateIntegrity recomputes the expected tag over {ciphertext, IV, key id}
// with the same key material and compares in constant time.
func (e *EncryptorService) ValidateIntegrity(
	ctx context.Context,
	payload *cryptoDomain.EncryptedPayload,
) (bool, error) {
	if payload == nil {
		return false, apperrors.Wrap(apperrors.ErrInvalidArgument, "nil payload")
	}

	handle, err := e.resolveHandle(ctx, payload.KeyID)
	if err != nil {
		return false, err
	}

	expected, err := computeIntegrityTag(handle.Material, payload.Ciphertext, payload.IV, payload.KeyID)
	if err != nil {
		return false, err
	}

	return hmac.Equal(payload.Tag, expected), nil
}

// RotateKey verifies newKeyID resolves through the provider, makes it the
// default for new encryptions, and evicts oldKeyID's cached handle. Existing
// payloads encrypted under oldKeyID remain decryptable as long as the provider
// has not revoked that key; rotation does not re-encrypt existing data.
func (e *EncryptorService) RotateKey(ctx context.Context, oldKeyID, newKeyID string) error {
	if newKeyID == "" {
		return apperrors.Wrap(apperrors.ErrInvalidArgument, "new key id is required")
	}

	handle, err := e.provider.GetKey(ctx, newKeyID)
	if err != nil {
		return apperrors.Wrapf(err, "cannot rotate to key %q", newKeyID)
	}
	if !handle.Usable(time.Now().UTC()) {
		return apperrors.Wrapf(cryptoDomain.ErrKeyUnavailable, "cannot rotate to key %q", newKeyID)
	}

	e.evictHandle(oldKeyID)

	e.mu.Lock()
	e.handles[newKeyID] = handle
	e.defaultKeyID = newKeyID
	e.mu.Unlock()

	return nil
}

// Rewrap decrypts a payload and re-encrypts it under newKeyID (default key if
// empty). Used for eager re-encryption after rotation.
func (e *EncryptorService) Rewrap(
	ctx context.Context,
	payload *cryptoDomain.EncryptedPayload,
	newKeyID string,
) (*cryptoDomain.EncryptedPayload, error) {
	plaintext, err := e.Decrypt(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	return e.Encrypt(ctx, plaintext, newKeyID)
}

// ListAvailableKeys enumerates enabled, non-expired keys known to the provider.
func (e *EncryptorService) ListAvailableKeys(ctx context.Context) ([]string, error) {
	ids, err := e.provider.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	available := make([]string, 0, len(ids))
	for _, id := range ids {
		handle, err := e.provider.GetKey(ctx, id)
		if err != nil {
			continue
		}
		if handle.Usable(now) {
			available = append(available, id)
		}
		cryptoDomain.Zero(handle.Material)
	}

	return available, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// key material. Info parameter is versioned for future algorithm changes.
func deriveSigningKey(material []byte) ([]byte, error) {
	info := []byte("payload-integrity-v1")
	reader := hkdf.New(sha256.New, material, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// computeIntegrityTag returns HMAC-SHA256 over the canonical byte form of
// {ciphertext, IV, key id}. Length-prefixed encoding prevents ambiguity
// between adjacent variable-length fields.
func computeIntegrityTag(material, ciphertext, iv []byte, keyID string) ([]byte, error) {
	signingKey, err := deriveSigningKey(material)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	buf := make([]byte, 0, len(ciphertext)+len(iv)+len(keyID)+12)
	buf = appendLengthPrefixed(buf, ciphertext)
	buf = appendLengthPrefixed(buf, iv)
	buf = appendLengthPrefixed(buf, []byte(keyID))

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(buf)
	return mac.Sum(nil), nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}
