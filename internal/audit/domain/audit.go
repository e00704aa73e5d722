// Package domain defines the audit trail domain models: entries, operation
// types, and risk classification.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationType identifies the kind of action an audit entry records.
type OperationType string

const (
	OperationRead                OperationType = "read"
	OperationWrite               OperationType = "write"
	OperationDelete              OperationType = "delete"
	OperationAccessControlChange OperationType = "access_control_change"
	OperationKeyRotation         OperationType = "key_rotation"
	OperationAuthentication      OperationType = "authentication"
	OperationSystem              OperationType = "system"
)

// RiskLevel grades how dangerous an audited operation is.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns the canonical risk level name.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so risk levels serialize as
// their names in JSON reports.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// AuditEntry is one immutable record in the audit trail. Value hashes are
// SHA-256 digests; raw configuration values never enter the trail. Signature
// is an HMAC over the entry's canonical form, set once at append time.
type AuditEntry struct {
	ID                uuid.UUID         `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	Operation         OperationType     `json:"operation"`
	Path              string            `json:"path"`
	UserID            string            `json:"user_id"`
	Success           bool              `json:"success"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	PreviousValueHash string            `json:"previous_value_hash,omitempty"`
	NewValueHash      string            `json:"new_value_hash,omitempty"`
	RiskLevel         RiskLevel         `json:"risk_level"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Signature         []byte            `json:"signature,omitempty"`

	// riskPinned marks a caller-set risk level that automatic
	// classification at append time must not overwrite.
	riskPinned bool
}

// SetRiskLevel pins the entry's risk level. Entries without a pinned level
// are classified when recorded.
func (e *AuditEntry) SetRiskLevel(level RiskLevel) {
	e.RiskLevel = level
	e.riskPinned = true
}

// RiskPinned reports whether the risk level was set explicitly.
func (e *AuditEntry) RiskPinned() bool {
	return e.riskPinned
}

// Clone returns a deep copy so callers cannot mutate stored entries.
func (e AuditEntry) Clone() AuditEntry {
	clone := e
	if e.Metadata != nil {
		clone.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			clone.Metadata[k] = v
		}
	}
	if e.Signature != nil {
		clone.Signature = append([]byte(nil), e.Signature...)
	}
	return clone
}
