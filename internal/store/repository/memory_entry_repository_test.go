package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

func plainEntry(key, value string) *storeDomain.ConfigurationEntry {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &storeDomain.ConfigurationEntry{
		Key:            key,
		Value:          value,
		CreatedAt:      now,
		CreatedBy:      "alice",
		LastModified:   now,
		LastModifiedBy: "alice",
	}
}

func TestMemoryRepositoryUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEntryRepository()

	require.NoError(t, repo.Upsert(ctx, plainEntry("app/timeout", "30s")))

	entry, err := repo.Get(ctx, "app/timeout")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "30s", entry.Value)

	// Absent key is (nil, nil).
	missing, err := repo.Get(ctx, "app/missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryRepositoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEntryRepository()

	stored := plainEntry("db/password", "")
	stored.IsSensitive = true
	stored.Payload = &cryptoDomain.EncryptedPayload{Ciphertext: []byte{1, 2, 3}, KeyID: "primary"}
	require.NoError(t, repo.Upsert(ctx, stored))

	entry, err := repo.Get(ctx, "db/password")
	require.NoError(t, err)
	entry.Payload.Ciphertext[0] = 9

	again, err := repo.Get(ctx, "db/password")
	require.NoError(t, err)
	assert.Equal(t, byte(1), again.Payload.Ciphertext[0])
}

func TestMemoryRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEntryRepository()

	require.NoError(t, repo.Upsert(ctx, plainEntry("app/timeout", "30s")))

	deleted, err := repo.Delete(ctx, "app/timeout")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "app/timeout")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryRepositoryListSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEntryRepository()

	require.NoError(t, repo.Upsert(ctx, plainEntry("b", "2")))
	require.NoError(t, repo.Upsert(ctx, plainEntry("a", "1")))
	require.NoError(t, repo.Upsert(ctx, plainEntry("c", "3")))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)
	assert.Equal(t, "c", entries[2].Key)
}

func TestMemoryRepositoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemoryEntryRepository()
	assert.Error(t, repo.Upsert(ctx, plainEntry("a", "1")))
	_, err := repo.Get(ctx, "a")
	assert.Error(t, err)
}

func TestMemoryRepositoryConcurrentDistinctKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEntryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n)
			_ = repo.Upsert(ctx, plainEntry(key, "v"))
			_, _ = repo.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 16)
}
