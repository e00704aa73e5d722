package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	"github.com/allisson/configvault/internal/database"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// MySQLArchiveRepository appends audit entries to MySQL. UUIDs are stored as
// BINARY(16) and timestamps as DATETIME(6).
type MySQLArchiveRepository struct {
	db *sql.DB
}

// NewMySQLArchiveRepository creates a MySQL audit archive.
func NewMySQLArchiveRepository(db *sql.DB) *MySQLArchiveRepository {
	return &MySQLArchiveRepository{db: db}
}

// Save inserts one audit entry. Nil metadata is stored as NULL.
func (m *MySQLArchiveRepository) Save(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "marshal audit entry metadata")
		}
	}

	query := `INSERT INTO audit_archive
		(id, recorded_at, operation, path, user_id, success, error_message,
		 previous_value_hash, new_value_hash, risk_level, metadata, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID[:],
		entry.Timestamp,
		string(entry.Operation),
		entry.Path,
		entry.UserID,
		entry.Success,
		entry.ErrorMessage,
		entry.PreviousValueHash,
		entry.NewValueHash,
		entry.RiskLevel.String(),
		metadataJSON,
		entry.Signature,
	)
	if err != nil {
		return apperrors.Wrap(err, "insert audit archive entry")
	}

	return nil
}

// List returns archived entries newest first with offset/limit pagination.
func (m *MySQLArchiveRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, recorded_at, operation, path, user_id, success, error_message,
		 previous_value_hash, new_value_hash, risk_level, metadata, signature
		FROM audit_archive
		ORDER BY id DESC
		LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "list audit archive entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*auditDomain.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanMySQLArchiveRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterate audit archive entries")
	}

	return entries, nil
}

func scanMySQLArchiveRow(rows *sql.Rows) (*auditDomain.AuditEntry, error) {
	var entry auditDomain.AuditEntry
	var idBytes []byte
	var operation, riskLevel string
	var metadataJSON []byte

	err := rows.Scan(
		&idBytes,
		&entry.Timestamp,
		&operation,
		&entry.Path,
		&entry.UserID,
		&entry.Success,
		&entry.ErrorMessage,
		&entry.PreviousValueHash,
		&entry.NewValueHash,
		&riskLevel,
		&metadataJSON,
		&entry.Signature,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "scan audit archive entry")
	}

	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "parse audit entry id")
	}
	entry.ID = id
	entry.Operation = auditDomain.OperationType(operation)
	entry.RiskLevel = parseRiskLevel(riskLevel)

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "unmarshal audit entry metadata")
		}
	}

	return &entry, nil
}
