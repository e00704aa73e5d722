package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/configvault/internal/database"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// MySQLEntryRepository persists configuration entries in MySQL. Payloads
// and tags are stored as JSON columns, timestamps as DATETIME(6).
type MySQLEntryRepository struct {
	db *sql.DB
}

// NewMySQLEntryRepository creates a MySQL entry repository.
func NewMySQLEntryRepository(db *sql.DB) *MySQLEntryRepository {
	return &MySQLEntryRepository{db: db}
}

// Upsert inserts or replaces the entry.
func (m *MySQLEntryRepository) Upsert(ctx context.Context, entry *storeDomain.ConfigurationEntry) error {
	querier := database.GetTx(ctx, m.db)

	payloadJSON, tagsJSON, err := marshalEntryColumns(entry)
	if err != nil {
		return err
	}

	query := "INSERT INTO config_entries " +
		"(`key`, value, payload, is_sensitive, created_at, created_by, last_modified, last_modified_by, tags) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE " +
		"value = VALUES(value), payload = VALUES(payload), is_sensitive = VALUES(is_sensitive), " +
		"created_at = VALUES(created_at), created_by = VALUES(created_by), " +
		"last_modified = VALUES(last_modified), last_modified_by = VALUES(last_modified_by), tags = VALUES(tags)"

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.Key,
		entry.Value,
		payloadJSON,
		entry.IsSensitive,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastModified,
		entry.LastModifiedBy,
		tagsJSON,
	)
	if err != nil {
		return apperrors.Wrap(err, "upsert config entry")
	}

	return nil
}

// Get returns the entry, or (nil, nil) when the key is absent.
func (m *MySQLEntryRepository) Get(ctx context.Context, key string) (*storeDomain.ConfigurationEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT `key`, value, payload, is_sensitive, created_at, created_by, last_modified, last_modified_by, tags " +
		"FROM config_entries WHERE `key` = ?"

	row := querier.QueryRowContext(ctx, query, key)
	entry, err := scanEntry(row.Scan)
	if apperrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "get config entry")
	}
	return entry, nil
}

// Delete removes the entry and reports whether a row was deleted.
func (m *MySQLEntryRepository) Delete(ctx context.Context, key string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, "DELETE FROM config_entries WHERE `key` = ?", key)
	if err != nil {
		return false, apperrors.Wrap(err, "delete config entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "delete config entry rows affected")
	}
	return affected > 0, nil
}

// List returns all entries ordered by key.
func (m *MySQLEntryRepository) List(ctx context.Context) ([]*storeDomain.ConfigurationEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT `key`, value, payload, is_sensitive, created_at, created_by, last_modified, last_modified_by, tags " +
		"FROM config_entries ORDER BY `key`"

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "list config entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*storeDomain.ConfigurationEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "scan config entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterate config entries")
	}

	return entries, nil
}
