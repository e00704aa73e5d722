package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// KeeperKeyProvider implements KeyProvider on top of a KMS keeper.
//
// Key material never appears in configuration as plaintext: each key is a
// random 32-byte value wrapped (encrypted) by the KMS keeper and carried as
// base64 ciphertext in the PROVIDER_KEYS environment variable. GetKey unwraps
// the ciphertext through the keeper on demand, which may block on provider
// I/O; callers cancel via context.
type KeeperKeyProvider struct {
	keeper cryptoDomain.KMSKeeper

	mu      sync.RWMutex
	wrapped map[string][]byte
}

// NewKeeperKeyProvider creates a provider backed by the given keeper and
// wrapped key set parsed from "keyID:base64-ciphertext" pairs, comma separated.
func NewKeeperKeyProvider(keeper cryptoDomain.KMSKeeper, providerKeys string) (*KeeperKeyProvider, error) {
	wrapped, err := parseProviderKeys(providerKeys)
	if err != nil {
		return nil, err
	}

	return &KeeperKeyProvider{
		keeper:  keeper,
		wrapped: wrapped,
	}, nil
}

// parseProviderKeys parses the PROVIDER_KEYS format: "id1:base64,id2:base64".
func parseProviderKeys(providerKeys string) (map[string][]byte, error) {
	wrapped := make(map[string][]byte)
	if strings.TrimSpace(providerKeys) == "" {
		return wrapped, nil
	}

	for _, pair := range strings.Split(providerKeys, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		id, encoded, found := strings.Cut(pair, ":")
		if !found || id == "" || encoded == "" {
			return nil, apperrors.Wrapf(
				apperrors.ErrInvalidArgument,
				"malformed provider key entry %q (want id:base64)",
				pair,
			)
		}

		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidArgument, "provider key %q is not base64", id)
		}
		wrapped[id] = ciphertext
	}

	return wrapped, nil
}

// GetKey unwraps the key material for the given id through the KMS keeper.
func (p *KeeperKeyProvider) GetKey(ctx context.Context, keyID string) (*cryptoDomain.KeyHandle, error) {
	p.mu.RLock()
	ciphertext, ok := p.wrapped[keyID]
	p.mu.RUnlock()
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrKeyNotFound, "key %q", keyID)
	}

	material, err := p.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrKeyNotFound, "failed to unwrap key %q: %v", keyID, err)
	}
	if len(material) != 32 {
		cryptoDomain.Zero(material)
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	return &cryptoDomain.KeyHandle{
		ID:        keyID,
		Material:  material,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CreateKey generates fresh random key material, wraps it through the keeper,
// and registers it under the given id.
func (p *KeeperKeyProvider) CreateKey(
	ctx context.Context,
	keyID string,
	spec cryptoDomain.KeySpec,
) (*cryptoDomain.KeyHandle, error) {
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

	ciphertext, err := p.keeper.Encrypt(ctx, material)
	if err != nil {
		cryptoDomain.Zero(material)
		return nil, fmt.Errorf("failed to wrap key %q: %w", keyID, err)
	}

	p.mu.Lock()
	p.wrapped[keyID] = ciphertext
	p.mu.Unlock()

	return &cryptoDomain.KeyHandle{
		ID:        keyID,
		Material:  material,
		Enabled:   true,
		ExpiresAt: spec.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ListKeys enumerates the wrapped key ids, sorted for deterministic output.
func (p *KeeperKeyProvider) ListKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.wrapped))
	for id := range p.wrapped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// WrappedKey returns the base64 ciphertext for a key id, for operators that
// need to persist the PROVIDER_KEYS value after CreateKey.
func (p *KeeperKeyProvider) WrappedKey(keyID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ciphertext, ok := p.wrapped[keyID]
	if !ok {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(ciphertext), true
}
