// Package domain defines the configuration store domain models: entries,
// metadata, backup documents, and operation reports.
package domain

import (
	"time"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
)

// ConfigurationEntry is one stored configuration value. Exactly one of
// Value and Payload is populated: sensitive entries hold an encrypted
// payload and an empty Value, plain entries hold the value and a nil
// Payload.
type ConfigurationEntry struct {
	Key            string                         `json:"key"`
	Value          string                         `json:"value,omitempty"`
	Payload        *cryptoDomain.EncryptedPayload `json:"payload,omitempty"`
	IsSensitive    bool                           `json:"is_sensitive"`
	CreatedAt      time.Time                      `json:"created_at"`
	CreatedBy      string                         `json:"created_by"`
	LastModified   time.Time                      `json:"last_modified"`
	LastModifiedBy string                         `json:"last_modified_by"`
	Tags           []string                       `json:"tags,omitempty"`
}

// Clone returns a deep copy of the entry.
func (e ConfigurationEntry) Clone() ConfigurationEntry {
	clone := e
	clone.Payload = e.Payload.Clone()
	if e.Tags != nil {
		clone.Tags = append([]string(nil), e.Tags...)
	}
	return clone
}

// Metadata extracts the non-secret metadata view of the entry.
func (e ConfigurationEntry) Metadata() EntryMetadata {
	return EntryMetadata{
		Key:            e.Key,
		IsSensitive:    e.IsSensitive,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
		LastModified:   e.LastModified,
		LastModifiedBy: e.LastModifiedBy,
		Tags:           append([]string(nil), e.Tags...),
	}
}

// EntryMetadata describes an entry without exposing its value or payload.
type EntryMetadata struct {
	Key            string    `json:"key"`
	IsSensitive    bool      `json:"is_sensitive"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by"`
	LastModified   time.Time `json:"last_modified"`
	LastModifiedBy string    `json:"last_modified_by"`
	Tags           []string  `json:"tags,omitempty"`
}
