package domain

import (
	"context"
	"time"
)

// KeyHandle is resolved key material obtained from a KeyProvider.
//
// Handles are cached by the encryption service to avoid repeated provider
// round-trips; rotation evicts the corresponding cache entry. The Material
// slice must be zeroed when a handle is discarded.
type KeyHandle struct {
	// ID is the provider-assigned key identifier.
	ID string
	// Material is the raw 32-byte key material.
	Material []byte
	// Enabled reports whether the provider still allows use of this key.
	Enabled bool
	// ExpiresAt marks when the key stops being usable (zero value = never).
	ExpiresAt time.Time
	// CreatedAt is the UTC timestamp when the key was created.
	CreatedAt time.Time
}

// Usable reports whether the handle is enabled and not expired at the given time.
func (k *KeyHandle) Usable(now time.Time) bool {
	if !k.Enabled {
		return false
	}
	if !k.ExpiresAt.IsZero() && !now.Before(k.ExpiresAt) {
		return false
	}
	return true
}

// KeySpec describes the key material a provider should create.
type KeySpec struct {
	// Size is the key material size in bytes (32 for all supported AEADs).
	Size int
	// ExpiresAt marks when the key stops being usable (zero value = never).
	ExpiresAt time.Time
}

// KeyProvider is the external key-management capability the encryption
// service depends on. Implementations may block on I/O and must honor
// context cancellation.
type KeyProvider interface {
	// GetKey resolves a key id to its handle. Returns ErrKeyNotFound (via the
	// shared error taxonomy) when the id is unknown or revoked.
	GetKey(ctx context.Context, keyID string) (*KeyHandle, error)

	// CreateKey creates new key material under the given id.
	CreateKey(ctx context.Context, keyID string, spec KeySpec) (*KeyHandle, error)

	// ListKeys enumerates the key ids known to the provider.
	ListKeys(ctx context.Context) ([]string, error)
}

// KMSKeeper abstracts the gocloud.dev secrets keeper used to wrap and unwrap
// provider key material. *secrets.Keeper implements this interface.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
