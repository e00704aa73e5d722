package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	"github.com/allisson/configvault/internal/database"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// PostgreSQLEntryRepository persists configuration entries in PostgreSQL.
// Encrypted payloads and tags are stored as JSONB columns.
type PostgreSQLEntryRepository struct {
	db *sql.DB
}

// NewPostgreSQLEntryRepository creates a PostgreSQL entry repository.
func NewPostgreSQLEntryRepository(db *sql.DB) *PostgreSQLEntryRepository {
	return &PostgreSQLEntryRepository{db: db}
}

// Upsert inserts or replaces the entry. CreatedAt and CreatedBy are kept
// by the caller, so the update path writes them verbatim.
func (p *PostgreSQLEntryRepository) Upsert(ctx context.Context, entry *storeDomain.ConfigurationEntry) error {
	querier := database.GetTx(ctx, p.db)

	payloadJSON, tagsJSON, err := marshalEntryColumns(entry)
	if err != nil {
		return err
	}

	query := `INSERT INTO config_entries
		(key, value, payload, is_sensitive, created_at, created_by, last_modified, last_modified_by, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			payload = EXCLUDED.payload,
			is_sensitive = EXCLUDED.is_sensitive,
			created_at = EXCLUDED.created_at,
			created_by = EXCLUDED.created_by,
			last_modified = EXCLUDED.last_modified,
			last_modified_by = EXCLUDED.last_modified_by,
			tags = EXCLUDED.tags`

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
func (p *PostgreSQLEntryRepository) Get(ctx context.Context, key string) (*storeDomain.ConfigurationEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, value, payload, is_sensitive, created_at, created_by, last_modified, last_modified_by, tags
		FROM config_entries WHERE key = $1`

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
func (p *PostgreSQLEntryRepository) Delete(ctx context.Context, key string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM config_entries WHERE key = $1`, key)
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
func (p *PostgreSQLEntryRepository) List(ctx context.Context) ([]*storeDomain.ConfigurationEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, value, payload, is_sensitive, created_at, created_by, last_modified, last_modified_by, tags
		FROM config_entries ORDER BY key`

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

// marshalEntryColumns serializes the payload and tags columns. Nil values
// become database NULLs.
func marshalEntryColumns(entry *storeDomain.ConfigurationEntry) ([]byte, []byte, error) {
	var payloadJSON, tagsJSON []byte
	var err error

	if entry.Payload != nil {
		payloadJSON, err = json.Marshal(entry.Payload)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "marshal entry payload")
		}
	}
	if entry.Tags != nil {
		tagsJSON, err = json.Marshal(entry.Tags)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "marshal entry tags")
		}
	}

	return payloadJSON, tagsJSON, nil
}

// scanEntry reads one row using the provided scan function. Shared by the
// PostgreSQL and MySQL repositories: both use the same column order.
func scanEntry(scan func(dest ...any) error) (*storeDomain.ConfigurationEntry, error) {
	var entry storeDomain.ConfigurationEntry
	var payloadJSON, tagsJSON []byte

	err := scan(
		&entry.Key,
		&entry.Value,
		&payloadJSON,
		&entry.IsSensitive,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastModified,
		&entry.LastModifiedBy,
		&tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	if payloadJSON != nil {
		var payload cryptoDomain.EncryptedPayload
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			return nil, apperrors.Wrap(err, "unmarshal entry payload")
		}
		entry.Payload = &payload
	}
	if tagsJSON != nil {
		if err := json.Unmarshal(tagsJSON, &entry.Tags); err != nil {
			return nil, apperrors.Wrap(err, "unmarshal entry tags")
		}
	}

	return &entry, nil
}
