package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
)

func TestMatchKey(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"*", "anything/at/all", true},
		{"app/timeout", "app/timeout", true},
		{"app/timeout", "app/retries", false},
		{"app/*", "app/timeout", true},
		{"app/*", "app/nested/timeout", true},
		{"app/*", "db/timeout", false},
		{"*/timeout", "app/timeout", true},
		{"app/t?meout", "app/timeout", true},
		{"app/t?meout", "app/tmeout", false},
		{"app/*/limit", "app/workers/limit", true},
		{"app/*/limit", "app/limit", false},
		{"", "", true},
		{"", "x", false},
		{"**", "app/timeout", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchKey(tt.pattern, tt.key))
		})
	}
}

func TestConfigurationEntryClone(t *testing.T) {
	entry := ConfigurationEntry{
		Key:         "db/password",
		IsSensitive: true,
		Payload: &cryptoDomain.EncryptedPayload{
			Ciphertext: []byte{1, 2, 3},
			KeyID:      "primary",
		},
		Tags: []string{"database"},
	}

	clone := entry.Clone()
	clone.Payload.Ciphertext[0] = 9
	clone.Tags[0] = "changed"

	assert.Equal(t, byte(1), entry.Payload.Ciphertext[0])
	assert.Equal(t, "database", entry.Tags[0])
}

func TestConfigurationEntryMetadata(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := ConfigurationEntry{
		Key:            "app/timeout",
		Value:          "30s",
		CreatedAt:      now,
		CreatedBy:      "alice",
		LastModified:   now,
		LastModifiedBy: "bob",
		Tags:           []string{"app"},
	}

	meta := entry.Metadata()
	assert.Equal(t, "app/timeout", meta.Key)
	assert.False(t, meta.IsSensitive)
	assert.Equal(t, "alice", meta.CreatedBy)
	assert.Equal(t, "bob", meta.LastModifiedBy)
	assert.Equal(t, []string{"app"}, meta.Tags)
}
