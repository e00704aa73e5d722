package usecase

import (
	"context"
	"strconv"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// RewrapAll re-encrypts every sensitive entry the caller may write under
// the given key. Entries already under that key are skipped. Used for
// eager re-encryption after a rotation; per-key failures are collected
// rather than aborting the run.
func (s *SecureStoreService) RewrapAll(ctx context.Context, newKeyID, userID string) (*storeDomain.RestoreReport, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list entries for rewrap")
	}

	report := &storeDomain.RestoreReport{
		Failures: make(map[string]string),
	}

	for _, entry := range entries {
		if !entry.IsSensitive {
			continue
		}
		if entry.Payload != nil && entry.Payload.KeyID == newKeyID {
			report.Skipped++
			report.Failures[entry.Key] = "already under target key"
			continue
		}
		if !s.resolver.CanWrite(entry.Key, userID) {
			report.Skipped++
			report.Failures[entry.Key] = insufficientPermission
			continue
		}

		payload, err := s.encryptor.Rewrap(ctx, entry.Payload, newKeyID)
		if err != nil {
			report.Failed++
			report.Failures[entry.Key] = err.Error()
			continue
		}

		entry.Payload = payload
		entry.LastModified = s.now().UTC()
		entry.LastModifiedBy = userID
		if err := s.repo.Upsert(ctx, entry); err != nil {
			report.Failed++
			report.Failures[entry.Key] = err.Error()
			continue
		}
		report.Restored++
	}

	_ = s.audit.LogKeyRotation(ctx, auditDomain.AuditEntry{
		Path:    "rewrap-all",
		UserID:  userID,
		Success: report.Failed == 0,
		Metadata: map[string]string{
			"new_key_id": newKeyID,
			"rewrapped":  strconv.Itoa(report.Restored),
			"skipped":    strconv.Itoa(report.Skipped),
			"failed":     strconv.Itoa(report.Failed),
		},
	})
	return report, nil
}
