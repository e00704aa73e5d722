package usecase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// Backup writes the caller-readable entries to a versioned JSON document.
// Sensitive entries keep their encrypted payloads; with includeEncryption
// false they are omitted from the document entirely. A failed or cancelled
// write removes the partial file.
func (s *SecureStoreService) Backup(ctx context.Context, path string, includeEncryption bool, userID string) error {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.auditBackupResult(ctx, path, userID, 0, err)
		return apperrors.Wrap(err, "list entries for backup")
	}

	doc := storeDomain.BackupDocument{
		Version:   storeDomain.BackupFormatVersion,
		CreatedAt: s.now().UTC(),
		CreatedBy: userID,
		Entries:   make(map[string]storeDomain.BackupEntry),
	}

	for _, entry := range entries {
		if !s.resolver.CanRead(entry.Key, userID) {
			continue
		}
		if entry.IsSensitive && !includeEncryption {
			continue
		}
		doc.Entries[entry.Key] = storeDomain.BackupEntry{
			IsEncrypted: entry.IsSensitive,
			Value:       entry.Value,
			Payload:     entry.Payload.Clone(),
			Metadata:    entry.Metadata(),
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.auditBackupResult(ctx, path, userID, 0, err)
		return apperrors.Wrap(apperrors.ErrSerialization, "marshal backup document")
	}

	if err := writeFileAtomic(ctx, path, data); err != nil {
		s.auditBackupResult(ctx, path, userID, 0, err)
		return apperrors.Wrapf(err, "write backup %q", path)
	}

	s.auditBackupResult(ctx, path, userID, len(doc.Entries), nil)
	return nil
}

// writeFileAtomic writes the document to a temp file in the target
// directory and renames it into place, so readers never observe a partial
// backup.
func writeFileAtomic(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *SecureStoreService) auditBackupResult(ctx context.Context, path, userID string, count int, err error) {
	entry := auditDomain.AuditEntry{
		Path:    path,
		UserID:  userID,
		Success: err == nil,
		Metadata: map[string]string{
			"action":  "backup",
			"entries": strconv.Itoa(count),
		},
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	_ = s.audit.LogSystemEvent(ctx, entry)
}

// Restore loads a backup document and inserts its entries. Keys that
// already exist or that the caller cannot write are skipped with a per-key
// reason; only an unreadable or unparseable file is fatal.
func (s *SecureStoreService) Restore(ctx context.Context, path, userID string) (*storeDomain.RestoreReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrSerialization, "read backup %q: %v", path, err)
	}

	var doc storeDomain.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrSerialization, "parse backup %q: %v", path, err)
	}
	if doc.Version != storeDomain.BackupFormatVersion {
		return nil, apperrors.Wrapf(apperrors.ErrSerialization, "unsupported backup version %d", doc.Version)
	}

	report := &storeDomain.RestoreReport{
		Failures: make(map[string]string),
	}

	for _, key := range sortedBackupKeys(doc.Entries) {
		backup := doc.Entries[key]

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

		entry := storeDomain.ConfigurationEntry{
			Key:            key,
			Value:          backup.Value,
			Payload:        backup.Payload.Clone(),
			IsSensitive:    backup.IsEncrypted,
			CreatedAt:      backup.Metadata.CreatedAt,
			CreatedBy:      backup.Metadata.CreatedBy,
			LastModified:   s.now().UTC(),
			LastModifiedBy: userID,
			Tags:           backup.Metadata.Tags,
		}
		if err := s.repo.Upsert(ctx, &entry); err != nil {
			report.Failed++
			report.Failures[key] = err.Error()
			continue
		}
		report.Restored++
	}

	_ = s.audit.LogSystemEvent(ctx, auditDomain.AuditEntry{
		Path:    path,
		UserID:  userID,
		Success: report.Failed == 0,
		Metadata: map[string]string{
			"action":   "restore",
			"restored": strconv.Itoa(report.Restored),
			"skipped":  strconv.Itoa(report.Skipped),
			"failed":   strconv.Itoa(report.Failed),
		},
	})
	return report, nil
}

func sortedBackupKeys(entries map[string]storeDomain.BackupEntry) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
