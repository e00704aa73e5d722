package service

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
)

func newTestEncryptor(t *testing.T, keyIDs ...string) (*EncryptorService, *StaticKeyProvider) {
	t.Helper()

	provider := NewStaticKeyProvider()
	for _, id := range keyIDs {
		material := make([]byte, 32)
		_, err := rand.Read(material)
		require.NoError(t, err)
		require.NoError(t, provider.AddKey(id, material))
	}

	defaultKeyID := ""
	if len(keyIDs) > 0 {
		defaultKeyID = keyIDs[0]
	}

	return NewEncryptor(provider, NewAEADManager(), cryptoDomain.AESGCM, defaultKeyID), provider
}

func TestEncryptorService_Encrypt(t *testing.T) {
	ctx := context.Background()
	encryptor, _ := newTestEncryptor(t, "k1")

	t.Run("encrypt produces a tagged payload", func(t *testing.T) {
		payload, err := encryptor.Encrypt(ctx, []byte("s3cr3t"), "")
		require.NoError(t, err)

		assert.Equal(t, "k1", payload.KeyID)
		assert.Equal(t, cryptoDomain.AESGCM, payload.Algorithm)
		assert.Equal(t, cryptoDomain.PayloadFormatVersion, payload.Version)
		assert.NotEmpty(t, payload.Ciphertext)
		assert.Len(t, payload.IV, 12)
		assert.Len(t, payload.Tag, 32)
		assert.False(t, payload.EncryptedAt.IsZero())
		assert.NotContains(t, string(payload.Ciphertext), "s3cr3t")
	})

	t.Run("fresh IV per call", func(t *testing.T) {
		first, err := encryptor.Encrypt(ctx, []byte("same value"), "k1")
		require.NoError(t, err)
		second, err := encryptor.Encrypt(ctx, []byte("same value"), "k1")
		require.NoError(t, err)

		assert.NotEqual(t, first.IV, second.IV)
		assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
	})

	t.Run("empty plaintext is rejected", func(t *testing.T) {
		_, err := encryptor.Encrypt(ctx, nil, "k1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("unknown key id fails", func(t *testing.T) {
		_, err := encryptor.Encrypt(ctx, []byte("value"), "missing")
		assert.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})

	t.Run("cancelled context aborts key resolution", func(t *testing.T) {
		fresh, _ := newTestEncryptor(t, "k9")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fresh.Encrypt(cancelled, []byte("value"), "k9")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEncryptorService_Decrypt(t *testing.T) {
	ctx := context.Background()
	encryptor, _ := newTestEncryptor(t, "k1")

	t.Run("round-trip", func(t *testing.T) {
		payload, err := encryptor.Encrypt(ctx, []byte("connection-string"), "k1")
		require.NoError(t, err)

		plaintext, err := encryptor.Decrypt(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, []byte("connection-string"), plaintext)
	})

	t.Run("nil payload is rejected", func(t *testing.T) {
		_, err := encryptor.Decrypt(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestEncryptorService_TamperDetection(t *testing.T) {
	ctx := context.Background()
	encryptor, _ := newTestEncryptor(t, "k1")

	flipField := map[string]func(p *cryptoDomain.EncryptedPayload){
		"ciphertext": func(p *cryptoDomain.EncryptedPayload) { p.Ciphertext[0] ^= 0xff },
		"iv":         func(p *cryptoDomain.EncryptedPayload) { p.IV[0] ^= 0xff },
		"tag":        func(p *cryptoDomain.EncryptedPayload) { p.Tag[0] ^= 0xff },
	}

	for field, flip := range flipField {
		t.Run("flipped "+field+" byte is detected", func(t *testing.T) {
			payload, err := encryptor.Encrypt(ctx, []byte("tamper me"), "k1")
			require.NoError(t, err)

			tampered := payload.Clone()
			flip(tampered)

			valid, err := encryptor.ValidateIntegrity(ctx, tampered)
			require.NoError(t, err)
			assert.False(t, valid)

			_, err = encryptor.Decrypt(ctx, tampered)
			assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
		})
	}

	t.Run("payload bound to a different key id is detected", func(t *testing.T) {
		encryptor2, _ := newTestEncryptor(t, "k1", "k2")
		payload, err := encryptor2.Encrypt(ctx, []byte("bound"), "k1")
		require.NoError(t, err)

		tampered := payload.Clone()
		tampered.KeyID = "k2"

		valid, err := encryptor2.ValidateIntegrity(ctx, tampered)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("untampered payload validates", func(t *testing.T) {
		payload, err := encryptor.Encrypt(ctx, []byte("pristine"), "k1")
		require.NoError(t, err)

		valid, err := encryptor.ValidateIntegrity(ctx, payload)
		require.NoError(t, err)
		assert.True(t, valid)
	})
}

func TestEncryptorService_RotateKey(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation re-points the default key without re-encrypting", func(t *testing.T) {
		encryptor, _ := newTestEncryptor(t, "k1", "k2")

		oldPayload, err := encryptor.Encrypt(ctx, []byte("pre-rotation"), "")
		require.NoError(t, err)
		assert.Equal(t, "k1", oldPayload.KeyID)

		require.NoError(t, encryptor.RotateKey(ctx, "k1", "k2"))
		assert.Equal(t, "k2", encryptor.DefaultKeyID())

		// Old payload stays decryptable under the old key.
		plaintext, err := encryptor.Decrypt(ctx, oldPayload)
		require.NoError(t, err)
		assert.Equal(t, []byte("pre-rotation"), plaintext)

		// New encryptions resolve to the new default key.
		newPayload, err := encryptor.Encrypt(ctx, []byte("post-rotation"), "")
		require.NoError(t, err)
		assert.Equal(t, "k2", newPayload.KeyID)
	})

	t.Run("rotation to an unresolvable key fails", func(t *testing.T) {
		encryptor, _ := newTestEncryptor(t, "k1")
		err := encryptor.RotateKey(ctx, "k1", "ghost")
		assert.ErrorIs(t, err, apperrors.ErrKeyNotFound)
		assert.Equal(t, "k1", encryptor.DefaultKeyID())
	})

	t.Run("rotation to a disabled key fails", func(t *testing.T) {
		encryptor, provider := newTestEncryptor(t, "k1", "k2")
		provider.DisableKey("k2")

		err := encryptor.RotateKey(ctx, "k1", "k2")
		assert.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})

	t.Run("revoked old key makes old payloads undecryptable after eviction", func(t *testing.T) {
		encryptor, provider := newTestEncryptor(t, "k1", "k2")

		payload, err := encryptor.Encrypt(ctx, []byte("doomed"), "k1")
		require.NoError(t, err)

		require.NoError(t, encryptor.RotateKey(ctx, "k1", "k2"))
		provider.DisableKey("k1")

		_, err = encryptor.Decrypt(ctx, payload)
		assert.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})
}

func TestEncryptorService_Rewrap(t *testing.T) {
	ctx := context.Background()
	encryptor, _ := newTestEncryptor(t, "k1", "k2")

	payload, err := encryptor.Encrypt(ctx, []byte("rewrap me"), "k1")
	require.NoError(t, err)

	rewrapped, err := encryptor.Rewrap(ctx, payload, "k2")
	require.NoError(t, err)
	assert.Equal(t, "k2", rewrapped.KeyID)
	assert.NotEqual(t, payload.Ciphertext, rewrapped.Ciphertext)

	plaintext, err := encryptor.Decrypt(ctx, rewrapped)
	require.NoError(t, err)
	assert.Equal(t, []byte("rewrap me"), plaintext)
}

func TestEncryptorService_ListAvailableKeys(t *testing.T) {
	ctx := context.Background()
	encryptor, provider := newTestEncryptor(t, "k1", "k2", "k3")
	provider.DisableKey("k2")

	keys, err := encryptor.ListAvailableKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k3"}, keys)
}
