package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	auditService "github.com/allisson/configvault/internal/audit/service"
	cryptoService "github.com/allisson/configvault/internal/crypto/service"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
	storeRepository "github.com/allisson/configvault/internal/store/repository"
	"github.com/allisson/configvault/internal/validation"
)

// insufficientPermission is the audit error message for denied calls.
const insufficientPermission = "insufficient permission"

// SecureStoreService coordinates the access resolver, encryptor, entry
// repository, and audit logger.
type SecureStoreService struct {
	repo         storeRepository.EntryRepository
	encryptor    cryptoService.Encryptor
	resolver     AccessResolver
	audit        auditService.Logger
	logger       *slog.Logger
	sweepWorkers int
	now          func() time.Time
}

// StoreOption customizes a SecureStoreService.
type StoreOption func(*SecureStoreService)

// WithSweepWorkers bounds the integrity sweep concurrency.
func WithSweepWorkers(n int) StoreOption {
	return func(s *SecureStoreService) {
		if n > 0 {
			s.sweepWorkers = n
		}
	}
}

// withClock overrides the time source. Test hook.
func withClock(now func() time.Time) StoreOption {
	return func(s *SecureStoreService) {
		s.now = now
	}
}

// NewSecureStoreService creates the store orchestrator.
func NewSecureStoreService(
	repo storeRepository.EntryRepository,
	encryptor cryptoService.Encryptor,
	resolver AccessResolver,
	audit auditService.Logger,
	logger *slog.Logger,
	opts ...StoreOption,
) *SecureStoreService {
	s := &SecureStoreService{
		repo:         repo,
		encryptor:    encryptor,
		resolver:     resolver,
		audit:        audit,
		logger:       logger,
		sweepWorkers: 4,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores a configuration value. Sensitive values are encrypted before
// they reach the repository; the audit entry carries one-way hashes of the
// previous and new values, never the values themselves.
func (s *SecureStoreService) Set(ctx context.Context, key, value string, isSensitive bool, userID string) error {
	if err := validation.ValidateSetInput(key, userID); err != nil {
		return err
	}
	if !s.resolver.CanWrite(key, userID) {
		s.auditDenied(ctx, s.audit.LogWrite, key, userID)
		return apperrors.Wrapf(apperrors.ErrAccessDenied, "set %q", key)
	}

	existing, err := s.repo.Get(ctx, key)
	if err != nil {
		s.auditFailure(ctx, s.audit.LogWrite, key, userID, err)
		return apperrors.Wrapf(err, "set %q", key)
	}

	now := s.now().UTC()
	entry := storeDomain.ConfigurationEntry{
		Key:            key,
		IsSensitive:    isSensitive,
		CreatedAt:      now,
		CreatedBy:      userID,
		LastModified:   now,
		LastModifiedBy: userID,
	}
	if existing != nil {
		entry.CreatedAt = existing.CreatedAt
		entry.CreatedBy = existing.CreatedBy
		entry.Tags = existing.Tags
	}

	if isSensitive {
		payload, err := s.encryptor.Encrypt(ctx, []byte(value), "")
		if err != nil {
			s.auditFailure(ctx, s.audit.LogWrite, key, userID, err)
			return apperrors.Wrapf(err, "encrypt %q", key)
		}
		entry.Payload = payload
	} else {
		entry.Value = value
	}

	if err := s.repo.Upsert(ctx, &entry); err != nil {
		s.auditFailure(ctx, s.audit.LogWrite, key, userID, err)
		return apperrors.Wrapf(err, "set %q", key)
	}

	_ = s.audit.LogWrite(ctx, auditDomain.AuditEntry{
		Path:              key,
		UserID:            userID,
		Success:           true,
		PreviousValueHash: previousHash(existing),
		NewValueHash:      hashValue(value),
	})
	return nil
}

// Get returns the configuration value. An absent key is a successful read
// with a nil result; the audit entry notes the miss in its metadata.
func (s *SecureStoreService) Get(ctx context.Context, key, userID string) (*string, error) {
	if !s.resolver.CanRead(key, userID) {
		s.auditDenied(ctx, s.audit.LogRead, key, userID)
		return nil, apperrors.Wrapf(apperrors.ErrAccessDenied, "get %q", key)
	}

	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		s.auditFailure(ctx, s.audit.LogRead, key, userID, err)
		return nil, apperrors.Wrapf(err, "get %q", key)
	}
	if entry == nil {
		_ = s.audit.LogRead(ctx, auditDomain.AuditEntry{
			Path:     key,
			UserID:   userID,
			Success:  true,
			Metadata: map[string]string{"result": "not found"},
		})
		return nil, nil
	}

	value, err := s.entryValue(ctx, entry)
	if err != nil {
		s.auditFailure(ctx, s.audit.LogRead, key, userID, err)
		return nil, apperrors.Wrapf(err, "get %q", key)
	}

	_ = s.audit.LogRead(ctx, auditDomain.AuditEntry{
		Path:    key,
		UserID:  userID,
		Success: true,
	})
	return &value, nil
}

// Delete removes a configuration entry. Deleting an absent key succeeds
// with (false, nil) so callers can treat deletion as idempotent.
func (s *SecureStoreService) Delete(ctx context.Context, key, userID string) (bool, error) {
	if !s.resolver.CanDelete(key, userID) {
		s.auditDenied(ctx, s.audit.LogDelete, key, userID)
		return false, apperrors.Wrapf(apperrors.ErrAccessDenied, "delete %q", key)
	}

	existing, err := s.repo.Get(ctx, key)
	if err != nil {
		s.auditFailure(ctx, s.audit.LogDelete, key, userID, err)
		return false, apperrors.Wrapf(err, "delete %q", key)
	}
	if existing == nil {
		_ = s.audit.LogDelete(ctx, auditDomain.AuditEntry{
			Path:     key,
			UserID:   userID,
			Success:  true,
			Metadata: map[string]string{"result": "not found"},
		})
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		s.auditFailure(ctx, s.audit.LogDelete, key, userID, err)
		return false, apperrors.Wrapf(err, "delete %q", key)
	}

	_ = s.audit.LogDelete(ctx, auditDomain.AuditEntry{
		Path:              key,
		UserID:            userID,
		Success:           true,
		PreviousValueHash: previousHash(existing),
	})
	return deleted, nil
}

// ConfigurationExists reports whether a key exists and the caller may read
// it. Unauthorized callers see absent keys: existence itself is guarded.
func (s *SecureStoreService) ConfigurationExists(ctx context.Context, key, userID string) bool {
	if !s.resolver.CanRead(key, userID) {
		return false
	}
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "existence check failed",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return entry != nil
}

// GetConfigurationKeys returns the caller-readable keys matching a glob
// pattern, sorted ascending.
func (s *SecureStoreService) GetConfigurationKeys(ctx context.Context, pattern, userID string) ([]string, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list configuration keys")
	}

	keys := make([]string, 0)
	for _, entry := range entries {
		if !storeDomain.MatchKey(pattern, entry.Key) {
			continue
		}
		if !s.resolver.CanRead(entry.Key, userID) {
			continue
		}
		keys = append(keys, entry.Key)
	}
	return keys, nil
}

// GetConfigurationMetadata returns non-secret metadata for the requested
// keys. Keys that are absent or unreadable by the caller are omitted.
func (s *SecureStoreService) GetConfigurationMetadata(ctx context.Context, keys []string, userID string) (map[string]storeDomain.EntryMetadata, error) {
	result := make(map[string]storeDomain.EntryMetadata, len(keys))
	for _, key := range keys {
		if !s.resolver.CanRead(key, userID) {
			continue
		}
		entry, err := s.repo.Get(ctx, key)
		if err != nil {
			return nil, apperrors.Wrapf(err, "get metadata for %q", key)
		}
		if entry == nil {
			continue
		}
		result[key] = entry.Metadata()
	}
	return result, nil
}

// entryValue extracts the plaintext value, decrypting sensitive entries.
func (s *SecureStoreService) entryValue(ctx context.Context, entry *storeDomain.ConfigurationEntry) (string, error) {
	if !entry.IsSensitive {
		return entry.Value, nil
	}
	plaintext, err := s.encryptor.Decrypt(ctx, entry.Payload)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// auditDenied records a denied call. Denials are audited before the error
// returns to the caller.
func (s *SecureStoreService) auditDenied(ctx context.Context, log func(context.Context, auditDomain.AuditEntry) error, key, userID string) {
	_ = log(ctx, auditDomain.AuditEntry{
		Path:         key,
		UserID:       userID,
		Success:      false,
		ErrorMessage: insufficientPermission,
	})
}

// auditFailure records an authorized call that failed during execution.
func (s *SecureStoreService) auditFailure(ctx context.Context, log func(context.Context, auditDomain.AuditEntry) error, key, userID string, err error) {
	_ = log(ctx, auditDomain.AuditEntry{
		Path:         key,
		UserID:       userID,
		Success:      false,
		ErrorMessage: err.Error(),
	})
}

// hashValue returns the hex SHA-256 digest of a value. Audit entries carry
// these digests for change detection without exposing the values.
func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// previousHash digests the stored form of an existing entry: the plaintext
// value for plain entries, the ciphertext for sensitive ones. Sensitive
// values are never decrypted just to audit a change.
func previousHash(entry *storeDomain.ConfigurationEntry) string {
	if entry == nil {
		return ""
	}
	if entry.IsSensitive {
		if entry.Payload == nil {
			return ""
		}
		sum := sha256.Sum256(entry.Payload.Ciphertext)
		return hex.EncodeToString(sum[:])
	}
	return hashValue(entry.Value)
}
