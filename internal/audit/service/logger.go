package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	"github.com/allisson/configvault/internal/errors"
)

// DefaultCapacity is the audit trail capacity when none is configured.
const DefaultCapacity = 10_000

// archivePageSize is the page size used when rehydrating the trail from
// the archive.
const archivePageSize = 500

// AuditLoggerService keeps a bounded FIFO of signed audit entries. When the
// trail is full the oldest entry is evicted. An optional archive repository
// mirrors entries to durable storage; archive failures degrade to slog and
// never abort the audited operation.
type AuditLoggerService struct {
	mu       sync.Mutex
	entries  []auditDomain.AuditEntry
	capacity int

	signer  EntrySigner
	secret  []byte
	archive ArchiveRepository
	logger  *slog.Logger
	now     func() time.Time
}

// LoggerOption customizes an AuditLoggerService.
type LoggerOption func(*AuditLoggerService)

// WithCapacity overrides the trail capacity. Values below 1 keep the default.
func WithCapacity(capacity int) LoggerOption {
	return func(l *AuditLoggerService) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

// WithArchive mirrors every recorded entry to an archive repository.
func WithArchive(archive ArchiveRepository) LoggerOption {
	return func(l *AuditLoggerService) {
		l.archive = archive
	}
}

// withClock overrides the time source. Test hook.
func withClock(now func() time.Time) LoggerOption {
	return func(l *AuditLoggerService) {
		l.now = now
	}
}

// NewAuditLoggerService creates an audit logger signing entries with the
// given secret.
func NewAuditLoggerService(signer EntrySigner, secret []byte, logger *slog.Logger, opts ...LoggerOption) *AuditLoggerService {
	l := &AuditLoggerService{
		capacity: DefaultCapacity,
		signer:   signer,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.entries = make([]auditDomain.AuditEntry, 0, min(l.capacity, 1024))
	return l
}

// LogRead records a configuration read.
func (l *AuditLoggerService) LogRead(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationRead, entry)
}

// LogWrite records a configuration create or update.
func (l *AuditLoggerService) LogWrite(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationWrite, entry)
}

// LogDelete records a configuration delete.
func (l *AuditLoggerService) LogDelete(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationDelete, entry)
}

// LogAccessControlChange records a role assignment change.
func (l *AuditLoggerService) LogAccessControlChange(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationAccessControlChange, entry)
}

// LogKeyRotation records an encryption key rotation.
func (l *AuditLoggerService) LogKeyRotation(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationKeyRotation, entry)
}

// LogAuthentication records an authentication event.
func (l *AuditLoggerService) LogAuthentication(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationAuthentication, entry)
}

// LogSystemEvent records an internal system operation. Always Critical risk.
func (l *AuditLoggerService) LogSystemEvent(ctx context.Context, entry auditDomain.AuditEntry) error {
	return l.record(ctx, auditDomain.OperationSystem, entry)
}

// record finishes the entry (id, timestamp, risk, signature), appends it,
// and evicts the oldest entry beyond capacity.
func (l *AuditLoggerService) record(ctx context.Context, operation auditDomain.OperationType, entry auditDomain.AuditEntry) error {
	entry = entry.Clone()
	entry.Operation = operation

	if entry.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate audit entry id")
		}
		entry.ID = id
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now().UTC()
	}
	if !entry.RiskPinned() {
		entry.RiskLevel = auditDomain.ClassifyRisk(entry.Operation, entry.Path, entry.Success)
	}

	signature, err := l.signer.Sign(l.secret, &entry)
	if err != nil {
		return errors.Wrap(err, "sign audit entry")
	}
	entry.Signature = signature

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		overflow := len(l.entries) - l.capacity
		l.entries = append(l.entries[:0:0], l.entries[overflow:]...)
	}
	l.mu.Unlock()

	if l.archive != nil {
		if err := l.archive.Save(ctx, &entry); err != nil {
			l.logger.ErrorContext(ctx, "audit archive write failed",
				slog.String("entry_id", entry.ID.String()),
				slog.String("path", entry.Path),
				slog.String("error", err.Error()),
			)
			return errors.Wrap(err, "archive audit entry")
		}
	}
	return nil
}

// LoadArchive replaces the trail with the newest archived entries so a
// fresh process queries and reports over the durable history instead of an
// empty window. Entries beyond capacity stay in the archive only.
func (l *AuditLoggerService) LoadArchive(ctx context.Context) error {
	if l.archive == nil {
		return nil
	}

	loaded := make([]auditDomain.AuditEntry, 0)
	for offset := 0; len(loaded) < l.capacity; offset += archivePageSize {
		page, err := l.archive.List(ctx, offset, archivePageSize)
		if err != nil {
			return errors.Wrap(err, "load audit archive")
		}
		for _, e := range page {
			if len(loaded) == l.capacity {
				break
			}
			loaded = append(loaded, e.Clone())
		}
		if len(page) < archivePageSize {
			break
		}
	}

	// The archive lists newest first; the trail appends oldest first.
	for i, j := 0, len(loaded)-1; i < j; i, j = i+1, j-1 {
		loaded[i], loaded[j] = loaded[j], loaded[i]
	}

	l.mu.Lock()
	l.entries = loaded
	l.mu.Unlock()
	return nil
}

// GetAuditEntries returns the entries for a path within [from, to], newest
// first. Zero bounds are open.
func (l *AuditLoggerService) GetAuditEntries(path string, from, to time.Time) []auditDomain.AuditEntry {
	return l.query(from, to, func(e *auditDomain.AuditEntry) bool {
		return e.Path == path
	})
}

// GetUserAuditEntries returns the entries recorded for a user within
// [from, to], newest first.
func (l *AuditLoggerService) GetUserAuditEntries(userID string, from, to time.Time) []auditDomain.AuditEntry {
	return l.query(from, to, func(e *auditDomain.AuditEntry) bool {
		return e.UserID == userID
	})
}

// GetAuditEntriesByOperation returns the entries of one operation type
// within [from, to], newest first.
func (l *AuditLoggerService) GetAuditEntriesByOperation(operation auditDomain.OperationType, from, to time.Time) []auditDomain.AuditEntry {
	return l.query(from, to, func(e *auditDomain.AuditEntry) bool {
		return e.Operation == operation
	})
}

func (l *AuditLoggerService) query(from, to time.Time, match func(*auditDomain.AuditEntry) bool) []auditDomain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []auditDomain.AuditEntry
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := &l.entries[i]
		if !inWindow(e.Timestamp, from, to) || !match(e) {
			continue
		}
		result = append(result, e.Clone())
	}
	return result
}

func inWindow(ts, from, to time.Time) bool {
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && ts.After(to) {
		return false
	}
	return true
}

// VerifyEntry rechecks an entry's signature against the signing secret.
func (l *AuditLoggerService) VerifyEntry(entry auditDomain.AuditEntry) error {
	return l.signer.Verify(l.secret, &entry)
}

// snapshot returns a copy of the entries within [from, to] in append order.
func (l *AuditLoggerService) snapshot(from, to time.Time) []auditDomain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []auditDomain.AuditEntry
	for i := range l.entries {
		if inWindow(l.entries[i].Timestamp, from, to) {
			result = append(result, l.entries[i].Clone())
		}
	}
	return result
}

// Len returns the current number of entries in the trail.
func (l *AuditLoggerService) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
