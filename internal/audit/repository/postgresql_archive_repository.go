// Package repository persists audit entries to SQL backends. The archive is
// an append-only mirror of the in-memory trail used for durability and
// long-range compliance queries.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	"github.com/allisson/configvault/internal/database"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// PostgreSQLArchiveRepository appends audit entries to PostgreSQL.
type PostgreSQLArchiveRepository struct {
	db *sql.DB
}

// NewPostgreSQLArchiveRepository creates a PostgreSQL audit archive.
func NewPostgreSQLArchiveRepository(db *sql.DB) *PostgreSQLArchiveRepository {
	return &PostgreSQLArchiveRepository{db: db}
}

// Save inserts one audit entry. Nil metadata is stored as NULL.
func (p *PostgreSQLArchiveRepository) Save(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
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
func (p *PostgreSQLArchiveRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, recorded_at, operation, path, user_id, success, error_message,
		 previous_value_hash, new_value_hash, risk_level, metadata, signature
		FROM audit_archive
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "list audit archive entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*auditDomain.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanArchiveRow(rows)
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

func scanArchiveRow(rows *sql.Rows) (*auditDomain.AuditEntry, error) {
	var entry auditDomain.AuditEntry
	var operation, riskLevel string
	var recordedAt time.Time
	var metadataJSON []byte

	err := rows.Scan(
		&entry.ID,
		&recordedAt,
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

	entry.Timestamp = recordedAt
	entry.Operation = auditDomain.OperationType(operation)
	entry.RiskLevel = parseRiskLevel(riskLevel)

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "unmarshal audit entry metadata")
		}
	}

	return &entry, nil
}

func parseRiskLevel(name string) auditDomain.RiskLevel {
	switch name {
	case "medium":
		return auditDomain.RiskMedium
	case "high":
		return auditDomain.RiskHigh
	case "critical":
		return auditDomain.RiskCritical
	default:
		return auditDomain.RiskLow
	}
}
