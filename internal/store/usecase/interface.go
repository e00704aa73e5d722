// Package usecase orchestrates the secure configuration store: every
// operation is shaped authorize, execute, audit, with exactly one audit
// entry per authorized call.
package usecase

import (
	"context"

	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// AccessResolver answers permission checks for configuration paths.
type AccessResolver interface {
	CanRead(path, userID string) bool
	CanWrite(path, userID string) bool
	CanDelete(path, userID string) bool
}

// SecureStore is the public surface of the configuration store.
type SecureStore interface {
	// Set stores a configuration value, encrypting it when sensitive.
	Set(ctx context.Context, key, value string, isSensitive bool, userID string) error

	// Get returns the configuration value, decrypting sensitive entries.
	// An absent key returns (nil, nil): absence is not an error.
	Get(ctx context.Context, key, userID string) (*string, error)

	// Delete removes a configuration entry. Deleting a nonexistent key is
	// not an error and returns false.
	Delete(ctx context.Context, key, userID string) (bool, error)

	// ConfigurationExists reports whether the key exists and is visible to
	// the caller. False for both absent keys and unauthorized callers.
	ConfigurationExists(ctx context.Context, key, userID string) bool

	// GetConfigurationKeys returns the caller-readable keys matching a
	// glob pattern.
	GetConfigurationKeys(ctx context.Context, pattern, userID string) ([]string, error)

	// GetConfigurationMetadata returns non-secret metadata for the
	// caller-readable keys among those requested.
	GetConfigurationMetadata(ctx context.Context, keys []string, userID string) (map[string]storeDomain.EntryMetadata, error)

	// ValidateIntegrity sweeps every encrypted payload and reports tag
	// mismatches. The sweep never halts on the first failure.
	ValidateIntegrity(ctx context.Context) (*storeDomain.IntegrityReport, error)

	// Backup writes the caller-readable entries to a versioned JSON file.
	// With includeEncryption false, sensitive entries are omitted entirely.
	Backup(ctx context.Context, path string, includeEncryption bool, userID string) error

	// Restore loads entries from a backup file. Existing keys and keys the
	// caller cannot write are skipped, never overwritten.
	Restore(ctx context.Context, path, userID string) (*storeDomain.RestoreReport, error)

	// Import parses an env-format document and applies Set semantics per
	// key. Keys matching the sensitive heuristic are stored encrypted.
	Import(ctx context.Context, source, userID string) (*storeDomain.RestoreReport, error)

	// Export renders the caller-readable entries as an env-format document.
	Export(ctx context.Context, userID string) (string, error)

	// RewrapAll re-encrypts every sensitive entry the caller may write
	// under the given key. Used for eager re-encryption after rotation.
	RewrapAll(ctx context.Context, newKeyID, userID string) (*storeDomain.RestoreReport, error)
}
