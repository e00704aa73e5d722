package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/configvault/internal/access/domain"
	accessService "github.com/allisson/configvault/internal/access/service"
	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	auditService "github.com/allisson/configvault/internal/audit/service"
	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	cryptoService "github.com/allisson/configvault/internal/crypto/service"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeRepository "github.com/allisson/configvault/internal/store/repository"
)

func discardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// storeFixture wires a full store with in-memory components.
type storeFixture struct {
	store     *SecureStoreService
	repo      *storeRepository.MemoryEntryRepository
	encryptor *cryptoService.EncryptorService
	provider  *cryptoService.StaticKeyProvider
	resolver  *accessService.Resolver
	audit     *auditService.AuditLoggerService
}

func newStoreFixture(t *testing.T, opts ...StoreOption) *storeFixture {
	t.Helper()

	provider := cryptoService.NewStaticKeyProvider()
	material := make([]byte, 32)
	_, err := rand.Read(material)
	require.NoError(t, err)
	require.NoError(t, provider.AddKey("primary", material))

	encryptor := cryptoService.NewEncryptor(provider, cryptoService.NewAEADManager(), cryptoDomain.AESGCM, "primary")
	resolver := accessService.NewResolver()
	resolver.AddUserToRole("admin", accessDomain.RoleAdministrator)
	resolver.AddUserToRole("writer", accessDomain.RoleUser)
	resolver.AddUserToRole("power", accessDomain.RolePowerUser)

	logger := discardSlog()
	audit := auditService.NewAuditLoggerService(
		auditService.NewEntrySigner(),
		[]byte("0123456789abcdef0123456789abcdef"),
		logger,
	)
	repo := storeRepository.NewMemoryEntryRepository()

	return &storeFixture{
		store:     NewSecureStoreService(repo, encryptor, resolver, audit, logger, opts...),
		repo:      repo,
		encryptor: encryptor,
		provider:  provider,
		resolver:  resolver,
		audit:     audit,
	}
}

func (f *storeFixture) auditEntriesFor(path string) []auditDomain.AuditEntry {
	return f.audit.GetAuditEntries(path, time.Time{}, time.Time{})
}

func TestSecureStoreSetAndGetPlain(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "writer"))

	value, err := f.store.Get(ctx, "app/timeout", "writer")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "30s", *value)

	// One write entry and one read entry, newest first.
	entries := f.auditEntriesFor("app/timeout")
	require.Len(t, entries, 2)
	assert.Equal(t, auditDomain.OperationRead, entries[0].Operation)
	assert.Equal(t, auditDomain.OperationWrite, entries[1].Operation)
	assert.NotEmpty(t, entries[1].NewValueHash)
	assert.NotEqual(t, "30s", entries[1].NewValueHash)
}

func TestSecureStoreSensitiveValueEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	// The repository never sees the plaintext.
	stored, err := f.repo.Get(ctx, "db/password")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsSensitive)
	assert.Empty(t, stored.Value)
	require.NotNil(t, stored.Payload)
	assert.NotContains(t, string(stored.Payload.Ciphertext), "hunter2")

	value, err := f.store.Get(ctx, "db/password", "admin")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "hunter2", *value)
}

func TestSecureStoreSetDeniedIsAudited(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	// A plain user cannot write a sensitive path.
	err := f.store.Set(ctx, "db/password", "hunter2", true, "writer")
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))

	entries := f.auditEntriesFor("db/password")
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, insufficientPermission, entries[0].ErrorMessage)
}

func TestSecureStoreSetPreservesCreatedBy(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "writer"))
	require.NoError(t, f.store.Set(ctx, "app/timeout", "60s", false, "admin"))

	stored, err := f.repo.Get(ctx, "app/timeout")
	require.NoError(t, err)
	assert.Equal(t, "writer", stored.CreatedBy)
	assert.Equal(t, "admin", stored.LastModifiedBy)
}

func TestSecureStoreGetAbsentKey(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	value, err := f.store.Get(ctx, "app/missing", "writer")
	require.NoError(t, err)
	assert.Nil(t, value)

	entries := f.auditEntriesFor("app/missing")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "not found", entries[0].Metadata["result"])
}

func TestSecureStoreGetTamperedPayload(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	// Corrupt the stored ciphertext behind the store's back.
	stored, err := f.repo.Get(ctx, "db/password")
	require.NoError(t, err)
	stored.Payload.Ciphertext[0] ^= 0xff
	require.NoError(t, f.repo.Upsert(ctx, stored))

	_, err = f.store.Get(ctx, "db/password", "admin")
	assert.True(t, apperrors.Is(err, apperrors.ErrIntegrityViolation))

	entries := f.auditEntriesFor("db/password")
	assert.False(t, entries[0].Success)
}

func TestSecureStoreDelete(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "power"))

	deleted, err := f.store.Delete(ctx, "app/timeout", "power")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting a nonexistent key is not an error.
	deleted, err = f.store.Delete(ctx, "app/timeout", "power")
	require.NoError(t, err)
	assert.False(t, deleted)

	// A plain user cannot delete at all.
	_, err = f.store.Delete(ctx, "app/other", "writer")
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))
}

func TestSecureStoreConfigurationExists(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	assert.True(t, f.store.ConfigurationExists(ctx, "db/password", "admin"))
	// Unauthorized callers cannot observe existence.
	assert.False(t, f.store.ConfigurationExists(ctx, "db/password", "writer"))
	assert.False(t, f.store.ConfigurationExists(ctx, "db/missing", "admin"))
}

func TestSecureStoreGetConfigurationKeys(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "writer"))
	require.NoError(t, f.store.Set(ctx, "app/retries", "3", false, "writer"))
	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	keys, err := f.store.GetConfigurationKeys(ctx, "app/*", "writer")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app/timeout", "app/retries"}, keys)

	// The sensitive key is invisible to non-administrators.
	keys, err = f.store.GetConfigurationKeys(ctx, "*", "writer")
	require.NoError(t, err)
	assert.NotContains(t, keys, "db/password")

	keys, err = f.store.GetConfigurationKeys(ctx, "*", "admin")
	require.NoError(t, err)
	assert.Contains(t, keys, "db/password")
}

func TestSecureStoreGetConfigurationMetadata(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "writer"))
	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))

	meta, err := f.store.GetConfigurationMetadata(ctx, []string{"app/timeout", "db/password", "app/missing"}, "writer")
	require.NoError(t, err)
	require.Contains(t, meta, "app/timeout")
	assert.NotContains(t, meta, "db/password")
	assert.NotContains(t, meta, "app/missing")
	assert.Equal(t, "writer", meta["app/timeout"].CreatedBy)
}

func TestSecureStoreSetInvalidKey(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	err := f.store.Set(ctx, "app//timeout", "30s", false, "writer")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidArgument))
}

func TestSecureStoreCancelledSetWritesNoSuccessAudit(t *testing.T) {
	f := newStoreFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.store.Set(ctx, "app/timeout", "30s", false, "writer")
	assert.Error(t, err)

	for _, entry := range f.auditEntriesFor("app/timeout") {
		assert.False(t, entry.Success)
	}
}
