package domain

import (
	"time"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
)

// BackupFormatVersion identifies the backup document layout. Bumped when
// the document shape changes incompatibly.
const BackupFormatVersion = 1

// BackupEntry is one entry in a backup document. Sensitive entries carry
// the encrypted payload as-is: values stay encrypted in backup files.
type BackupEntry struct {
	IsEncrypted bool                           `json:"is_encrypted"`
	Value       string                         `json:"value,omitempty"`
	Payload     *cryptoDomain.EncryptedPayload `json:"payload,omitempty"`
	Metadata    EntryMetadata                  `json:"metadata"`
}

// BackupDocument is the versioned JSON root of a backup file.
type BackupDocument struct {
	Version   int                    `json:"version"`
	CreatedAt time.Time              `json:"created_at"`
	CreatedBy string                 `json:"created_by"`
	Entries   map[string]BackupEntry `json:"entries"`
}

// IntegrityReport summarizes an integrity sweep over encrypted payloads.
type IntegrityReport struct {
	Total    int               `json:"total"`
	Valid    int               `json:"valid"`
	Invalid  int               `json:"invalid"`
	Failures map[string]string `json:"failures,omitempty"`
}

// RestoreReport summarizes a restore or import run. Failures maps keys to
// the reason they were skipped or failed.
type RestoreReport struct {
	Restored int               `json:"restored"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Failures map[string]string `json:"failures,omitempty"`
}
