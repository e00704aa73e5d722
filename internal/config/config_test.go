package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "", cfg.KMSProvider)
				assert.Equal(t, "", cfg.KMSKeyURI)
				assert.Equal(t, "aes-gcm", cfg.PayloadAlgorithm)
				assert.Equal(t, 10000, cfg.AuditCapacity)
				assert.False(t, cfg.AuditArchiveEnabled)
				assert.Equal(t, "memory", cfg.StorageBackend)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "configvault", cfg.MetricsNamespace)
				assert.Equal(t, 4, cfg.IntegritySweepWorkers)
			},
		},
		{
			name: "load custom key provider configuration",
			envVars: map[string]string{
				"KMS_PROVIDER":      "localsecrets",
				"KMS_KEY_URI":       "base64key://c21va2V5c21va2V5c21va2V5c21va2V5cw==",
				"PROVIDER_KEYS":     "k1:abc,k2:def",
				"DEFAULT_KEY_ID":    "k1",
				"PAYLOAD_ALGORITHM": "chacha20-poly1305",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localsecrets", cfg.KMSProvider)
				assert.Equal(t, "base64key://c21va2V5c21va2V5c21va2V5c21va2V5cw==", cfg.KMSKeyURI)
				assert.Equal(t, "k1:abc,k2:def", cfg.ProviderKeys)
				assert.Equal(t, "k1", cfg.DefaultKeyID)
				assert.Equal(t, "chacha20-poly1305", cfg.PayloadAlgorithm)
			},
		},
		{
			name: "load custom audit and storage configuration",
			envVars: map[string]string{
				"AUDIT_CAPACITY":          "500",
				"AUDIT_ARCHIVE_ENABLED":   "true",
				"STORAGE_BACKEND":         "mysql",
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"INTEGRITY_SWEEP_WORKERS": "8",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 500, cfg.AuditCapacity)
				assert.True(t, cfg.AuditArchiveEnabled)
				assert.Equal(t, "mysql", cfg.StorageBackend)
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 8, cfg.IntegritySweepWorkers)
			},
		},
		{
			name: "load custom access control and audit signing configuration",
			envVars: map[string]string{
				"ROLE_ASSIGNMENTS":     "alice:administrator,bob:user",
				"AUDIT_SIGNING_SECRET": "0123456789abcdef0123456789abcdef",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "alice:administrator,bob:user", cfg.RoleAssignments)
				assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.AuditSigningSecret)
			},
		},
		{
			name: "load custom metrics configuration",
			envVars: map[string]string{
				"METRICS_ENABLED":   "false",
				"METRICS_NAMESPACE": "vaulttest",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.MetricsEnabled)
				assert.Equal(t, "vaulttest", cfg.MetricsNamespace)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				require.NoError(t, os.Setenv(key, value))
			}
			defer func() {
				for key := range tt.envVars {
					require.NoError(t, os.Unsetenv(key))
				}
			}()

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}
