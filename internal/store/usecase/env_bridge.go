package usecase

import (
	"context"
	"sort"
	"strconv"

	"github.com/joho/godotenv"

	accessDomain "github.com/allisson/configvault/internal/access/domain"
	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// Import parses an env-format document and stores each pair with Set
// semantics. Keys matching the sensitive heuristic are encrypted. Existing
// keys and keys the caller cannot write are skipped, mirroring Restore.
func (s *SecureStoreService) Import(ctx context.Context, source, userID string) (*storeDomain.RestoreReport, error) {
	pairs, err := godotenv.Unmarshal(source)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrSerialization, "parse env document: %v", err)
	}

	report := &storeDomain.RestoreReport{
		Failures: make(map[string]string),
	}

	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !s.resolver.CanWrite(key, userID) {
			report.Skipped++
			report.Failures[key] = insufficientPermission
			continue
		}

		existing, err := s.repo.Get(ctx, key)
		if err != nil {
			report.Failed++
			report.Failures[key] = err.Error()
			continue
		}
		if existing != nil {
			report.Skipped++
			report.Failures[key] = "key already exists"
			continue
		}

		if err := s.Set(ctx, key, pairs[key], accessDomain.IsSensitivePath(key), userID); err != nil {
			report.Failed++
			report.Failures[key] = err.Error()
			continue
		}
		report.Restored++
	}

	_ = s.audit.LogSystemEvent(ctx, auditDomain.AuditEntry{
		Path:    "env-import",
		UserID:  userID,
		Success: report.Failed == 0,
		Metadata: map[string]string{
			"action":   "import",
			"imported": strconv.Itoa(report.Restored),
			"skipped":  strconv.Itoa(report.Skipped),
			"failed":   strconv.Itoa(report.Failed),
		},
	})
	return report, nil
}

// Export renders the caller-readable entries as an env-format document.
// Sensitive entries are decrypted, so the export contains plaintext: the
// caller's read permission on each key gates what leaves the store.
func (s *SecureStoreService) Export(ctx context.Context, userID string) (string, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return "", apperrors.Wrap(err, "list entries for export")
	}

	pairs := make(map[string]string)
	for _, entry := range entries {
		if !s.resolver.CanRead(entry.Key, userID) {
			continue
		}
		value, err := s.entryValue(ctx, entry)
		if err != nil {
			s.auditFailure(ctx, s.audit.LogRead, entry.Key, userID, err)
			return "", apperrors.Wrapf(err, "export %q", entry.Key)
		}
		pairs[entry.Key] = value
	}

	doc, err := godotenv.Marshal(pairs)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrSerialization, "marshal env document: %v", err)
	}

	_ = s.audit.LogSystemEvent(ctx, auditDomain.AuditEntry{
		Path:    "env-export",
		UserID:  userID,
		Success: true,
		Metadata: map[string]string{
			"action":  "export",
			"entries": strconv.Itoa(len(pairs)),
		},
	})
	return doc, nil
}
