package usecase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

func TestSecureStoreBackupIncludesEncryptedPayloads(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "admin"))
	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, f.store.Backup(ctx, path, true, "admin"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc storeDomain.BackupDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, storeDomain.BackupFormatVersion, doc.Version)
	require.Contains(t, doc.Entries, "db/password")
	assert.True(t, doc.Entries["db/password"].IsEncrypted)
	require.NotNil(t, doc.Entries["db/password"].Payload)
	assert.NotContains(t, string(data), "hunter2")
}

func TestSecureStoreBackupExcludesSensitiveWithoutEncryption(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "admin"))
	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, f.store.Backup(ctx, path, false, "admin"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc storeDomain.BackupDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc.Entries, "app/timeout")
	assert.NotContains(t, doc.Entries, "db/password")
}

func TestSecureStoreBackupRespectsReadPermission(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "admin"))
	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, f.store.Backup(ctx, path, true, "writer"))

	var doc storeDomain.BackupDocument
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc.Entries, "app/timeout")
	assert.NotContains(t, doc.Entries, "db/password")
}

func TestSecureStoreBackupCancelledRemovesFile(t *testing.T) {
	f := newStoreFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	err := f.store.Backup(ctx, path, true, "admin")
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// No temp file is left behind either.
	leftovers, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSecureStoreBackupWritesViaRename(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "admin"))

	// Overwriting an existing backup never exposes a partial document: the
	// new content lands in a temp file and is renamed over the old one.
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o600))
	require.NoError(t, f.store.Backup(ctx, path, true, "admin"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc storeDomain.BackupDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc.Entries, "app/timeout")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "backup.json", entries[0].Name())
}

func TestSecureStoreRestore(t *testing.T) {
	ctx := context.Background()
	source := newStoreFixture(t)

	require.NoError(t, source.store.Set(ctx, "app/timeout", "30s", false, "admin"))
	require.NoError(t, source.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, source.store.Backup(ctx, path, true, "admin"))

	// Restore into a fresh store that shares the key provider, so the
	// encrypted payload stays decryptable.
	target := newStoreFixture(t)
	targetStore := NewSecureStoreService(target.repo, source.encryptor, target.resolver, target.audit, discardSlog())

	report, err := targetStore.Restore(ctx, path, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Restored)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	value, err := targetStore.Get(ctx, "db/password", "admin")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "hunter2", *value)
}

func TestSecureStoreRestoreSkipsExistingKeys(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "admin"))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, f.store.Backup(ctx, path, true, "admin"))

	// The key still exists, so restore must not overwrite it.
	require.NoError(t, f.store.Set(ctx, "app/timeout", "60s", false, "admin"))

	report, err := f.store.Restore(ctx, path, "admin")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Restored)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "key already exists", report.Failures["app/timeout"])

	value, err := f.store.Get(ctx, "app/timeout", "admin")
	require.NoError(t, err)
	assert.Equal(t, "60s", *value)
}

func TestSecureStoreRestoreSkipsUnauthorizedKeys(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, f.store.Backup(ctx, path, true, "admin"))

	fresh := newStoreFixture(t)
	freshStore := NewSecureStoreService(fresh.repo, f.encryptor, fresh.resolver, fresh.audit, discardSlog())

	report, err := freshStore.Restore(ctx, path, "writer")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Restored)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, insufficientPermission, report.Failures["db/password"])
}

func TestSecureStoreRestoreUnreadableFile(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	_, err := f.store.Restore(ctx, filepath.Join(t.TempDir(), "missing.json"), "admin")
	assert.True(t, apperrors.Is(err, apperrors.ErrSerialization))

	badPath := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{not json"), 0o600))
	_, err = f.store.Restore(ctx, badPath, "admin")
	assert.True(t, apperrors.Is(err, apperrors.ErrSerialization))
}
