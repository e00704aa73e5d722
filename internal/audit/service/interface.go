// Package service implements the audit logger: a bounded in-memory trail of
// signed entries with query, verification, and compliance reporting support.
package service

import (
	"context"
	"time"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
)

// EntrySigner signs audit entries and verifies their signatures.
type EntrySigner interface {
	Sign(secret []byte, entry *auditDomain.AuditEntry) ([]byte, error)
	Verify(secret []byte, entry *auditDomain.AuditEntry) error
}

// ArchiveRepository mirrors audit entries to durable storage and reads them
// back for trail rehydration. Archive failures never abort the operation
// being audited.
type ArchiveRepository interface {
	Save(ctx context.Context, entry *auditDomain.AuditEntry) error
	List(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEntry, error)
}

// Logger records and queries the audit trail.
type Logger interface {
	LogRead(ctx context.Context, entry auditDomain.AuditEntry) error
	LogWrite(ctx context.Context, entry auditDomain.AuditEntry) error
	LogDelete(ctx context.Context, entry auditDomain.AuditEntry) error
	LogAccessControlChange(ctx context.Context, entry auditDomain.AuditEntry) error
	LogKeyRotation(ctx context.Context, entry auditDomain.AuditEntry) error
	LogAuthentication(ctx context.Context, entry auditDomain.AuditEntry) error
	LogSystemEvent(ctx context.Context, entry auditDomain.AuditEntry) error

	GetAuditEntries(path string, from, to time.Time) []auditDomain.AuditEntry
	GetUserAuditEntries(userID string, from, to time.Time) []auditDomain.AuditEntry
	GetAuditEntriesByOperation(operation auditDomain.OperationType, from, to time.Time) []auditDomain.AuditEntry

	VerifyEntry(entry auditDomain.AuditEntry) error
	GenerateComplianceReport(from, to time.Time, format auditDomain.ReportFormat) ([]byte, error)
}
