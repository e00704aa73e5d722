package domain

import (
	"time"
)

// ReportFormat selects the rendering of a compliance report.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatHTML ReportFormat = "html"
)

// SubjectCount pairs a report subject (user id or path) with how many audit
// entries reference it in the report window.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// ComplianceReport aggregates the audit trail over a time window. The same
// aggregate is rendered to every output format.
type ComplianceReport struct {
	GeneratedAt  time.Time             `json:"generated_at"`
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
	TotalEntries int                   `json:"total_entries"`
	SuccessCount int                   `json:"success_count"`
	FailureCount int                   `json:"failure_count"`
	ByOperation  map[OperationType]int `json:"by_operation"`
	ByRiskLevel  map[string]int        `json:"by_risk_level"`
	TopUsers     []SubjectCount        `json:"top_users"`
	TopPaths     []SubjectCount        `json:"top_paths"`
}
