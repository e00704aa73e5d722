package usecase

import (
	"context"
	"time"

	"github.com/allisson/configvault/internal/metrics"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// secureStoreWithMetrics decorates SecureStore with operation metrics.
type secureStoreWithMetrics struct {
	next    SecureStore
	metrics metrics.BusinessMetrics
}

// NewSecureStoreWithMetrics wraps a SecureStore with metrics recording.
func NewSecureStoreWithMetrics(store SecureStore, m metrics.BusinessMetrics) SecureStore {
	return &secureStoreWithMetrics{
		next:    store,
		metrics: m,
	}
}

func (s *secureStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "store", operation, status)
	s.metrics.RecordDuration(ctx, "store", operation, time.Since(start), status)
}

func (s *secureStoreWithMetrics) Set(ctx context.Context, key, value string, isSensitive bool, userID string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value, isSensitive, userID)
	s.record(ctx, "set", start, err)
	return err
}

func (s *secureStoreWithMetrics) Get(ctx context.Context, key, userID string) (*string, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key, userID)
	s.record(ctx, "get", start, err)
	return value, err
}

func (s *secureStoreWithMetrics) Delete(ctx context.Context, key, userID string) (bool, error) {
	start := time.Now()
	deleted, err := s.next.Delete(ctx, key, userID)
	s.record(ctx, "delete", start, err)
	return deleted, err
}

func (s *secureStoreWithMetrics) ConfigurationExists(ctx context.Context, key, userID string) bool {
	start := time.Now()
	exists := s.next.ConfigurationExists(ctx, key, userID)
	s.record(ctx, "exists", start, nil)
	return exists
}

func (s *secureStoreWithMetrics) GetConfigurationKeys(ctx context.Context, pattern, userID string) ([]string, error) {
	start := time.Now()
	keys, err := s.next.GetConfigurationKeys(ctx, pattern, userID)
	s.record(ctx, "list_keys", start, err)
	return keys, err
}

func (s *secureStoreWithMetrics) GetConfigurationMetadata(ctx context.Context, keys []string, userID string) (map[string]storeDomain.EntryMetadata, error) {
	start := time.Now()
	meta, err := s.next.GetConfigurationMetadata(ctx, keys, userID)
	s.record(ctx, "metadata", start, err)
	return meta, err
}

func (s *secureStoreWithMetrics) ValidateIntegrity(ctx context.Context) (*storeDomain.IntegrityReport, error) {
	start := time.Now()
	report, err := s.next.ValidateIntegrity(ctx)
	s.record(ctx, "validate_integrity", start, err)
	return report, err
}

func (s *secureStoreWithMetrics) Backup(ctx context.Context, path string, includeEncryption bool, userID string) error {
	start := time.Now()
	err := s.next.Backup(ctx, path, includeEncryption, userID)
	s.record(ctx, "backup", start, err)
	return err
}

func (s *secureStoreWithMetrics) Restore(ctx context.Context, path, userID string) (*storeDomain.RestoreReport, error) {
	start := time.Now()
	report, err := s.next.Restore(ctx, path, userID)
	s.record(ctx, "restore", start, err)
	return report, err
}

func (s *secureStoreWithMetrics) Import(ctx context.Context, source, userID string) (*storeDomain.RestoreReport, error) {
	start := time.Now()
	report, err := s.next.Import(ctx, source, userID)
	s.record(ctx, "import", start, err)
	return report, err
}

func (s *secureStoreWithMetrics) Export(ctx context.Context, userID string) (string, error) {
	start := time.Now()
	doc, err := s.next.Export(ctx, userID)
	s.record(ctx, "export", start, err)
	return doc, err
}

func (s *secureStoreWithMetrics) RewrapAll(ctx context.Context, newKeyID, userID string) (*storeDomain.RestoreReport, error) {
	start := time.Now()
	report, err := s.next.RewrapAll(ctx, newKeyID, userID)
	s.record(ctx, "rewrap_all", start, err)
	return report, err
}
