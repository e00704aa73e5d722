package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/configvault/internal/errors"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE config_entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	manager := NewTxManager(db)
	err = manager.WithTx(context.Background(), func(ctx context.Context) error {
		querier := GetTx(ctx, db)
		_, execErr := querier.ExecContext(ctx, "UPDATE config_entries SET value = 'x'")
		return execErr
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	manager := NewTxManager(db)
	boom := errors.New("boom")
	err = manager.WithTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.Equal(t, boom, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTxFallsBackToPool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	querier := GetTx(context.Background(), db)
	assert.Equal(t, db, querier)
}
