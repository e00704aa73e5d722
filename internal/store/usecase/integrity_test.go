package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIntegrityAllValid(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t, WithSweepWorkers(2))

	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))
	require.NoError(t, f.store.Set(ctx, "api/token", "tok-123", true, "admin"))
	require.NoError(t, f.store.Set(ctx, "app/timeout", "30s", false, "admin"))

	report, err := f.store.ValidateIntegrity(ctx)
	require.NoError(t, err)

	// Plain entries are not part of the sweep.
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Valid)
	assert.Equal(t, 0, report.Invalid)
	assert.Empty(t, report.Failures)
}

func TestValidateIntegrityReportsTampering(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	require.NoError(t, f.store.Set(ctx, "db/password", "hunter2", true, "admin"))
	require.NoError(t, f.store.Set(ctx, "api/token", "tok-123", true, "admin"))

	// Corrupt one payload; the sweep must still check the other.
	stored, err := f.repo.Get(ctx, "db/password")
	require.NoError(t, err)
	stored.Payload.Tag[0] ^= 0xff
	require.NoError(t, f.repo.Upsert(ctx, stored))

	report, err := f.store.ValidateIntegrity(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Valid)
	assert.Equal(t, 1, report.Invalid)
	assert.Contains(t, report.Failures, "db/password")
}

func TestValidateIntegrityCancelled(t *testing.T) {
	f := newStoreFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.store.ValidateIntegrity(ctx)
	assert.Error(t, err)
}
