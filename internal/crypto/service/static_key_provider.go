package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// StaticKeyProvider is an in-memory KeyProvider for tests and local
// development. Key material lives only in process memory and is never
// persisted; production deployments use KeeperKeyProvider.
type StaticKeyProvider struct {
	mu   sync.RWMutex
	keys map[string]*cryptoDomain.KeyHandle
}

// NewStaticKeyProvider creates an empty in-memory key provider.
func NewStaticKeyProvider() *StaticKeyProvider {
	return &StaticKeyProvider{
		keys: make(map[string]*cryptoDomain.KeyHandle),
	}
}

// AddKey registers existing key material under the given id. Intended for
// test fixtures that need deterministic keys.
func (p *StaticKeyProvider) AddKey(keyID string, material []byte) error {
	if len(material) != 32 {
		return cryptoDomain.ErrInvalidKeySize
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys[keyID] = &cryptoDomain.KeyHandle{
		ID:        keyID,
		Material:  append([]byte(nil), material...),
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// DisableKey marks a key as revoked. Subsequent GetKey calls fail with
// ErrKeyUnavailable; payloads encrypted under it become undecryptable.
func (p *StaticKeyProvider) DisableKey(keyID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if handle, ok := p.keys[keyID]; ok {
		handle.Enabled = false
	}
}

// GetKey resolves a key id to a copy of its handle.
func (p *StaticKeyProvider) GetKey(ctx context.Context, keyID string) (*cryptoDomain.KeyHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	handle, ok := p.keys[keyID]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrKeyNotFound, "key %q", keyID)
	}
	if !handle.Usable(time.Now().UTC()) {
		return nil, apperrors.Wrapf(cryptoDomain.ErrKeyUnavailable, "key %q", keyID)
	}

	return copyHandle(handle), nil
}

// CreateKey generates fresh random key material under the given id.
func (p *StaticKeyProvider) CreateKey(
	ctx context.Context,
	keyID string,
	spec cryptoDomain.KeySpec,
) (*cryptoDomain.KeyHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := spec.Size
	if size == 0 {
		size = 32
	}
	if size != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	material := make([]byte, size)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}

	handle := &cryptoDomain.KeyHandle{
		ID:        keyID,
		Material:  material,
		Enabled:   true,
		ExpiresAt: spec.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.keys[keyID] = handle
	p.mu.Unlock()

	return copyHandle(handle), nil
}

// ListKeys enumerates all key ids known to the provider, sorted for
// deterministic output.
func (p *StaticKeyProvider) ListKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.keys))
	for id := range p.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// copyHandle returns a handle copy with its own material slice, so callers
// zeroing material never corrupt the provider's state.
func copyHandle(h *cryptoDomain.KeyHandle) *cryptoDomain.KeyHandle {
	clone := *h
	clone.Material = append([]byte(nil), h.Material...)
	return &clone
}
