package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	"github.com/allisson/configvault/internal/errors"
)

func newReportLogger(t *testing.T) *AuditLoggerService {
	t.Helper()
	ctx := context.Background()
	logger := newTestLogger()

	require.NoError(t, logger.LogRead(ctx, auditDomain.AuditEntry{Path: "app/timeout", UserID: "alice", Success: true}))
	require.NoError(t, logger.LogRead(ctx, auditDomain.AuditEntry{Path: "app/timeout", UserID: "alice", Success: true}))
	require.NoError(t, logger.LogWrite(ctx, auditDomain.AuditEntry{Path: "db/password", UserID: "admin", Success: true}))
	require.NoError(t, logger.LogDelete(ctx, auditDomain.AuditEntry{Path: "features/beta", UserID: "bob", Success: false}))
	return logger
}

func TestComplianceReportJSON(t *testing.T) {
	logger := newReportLogger(t)

	data, err := logger.GenerateComplianceReport(time.Time{}, time.Time{}, auditDomain.ReportFormatJSON)
	require.NoError(t, err)

	var report auditDomain.ComplianceReport
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, 4, report.TotalEntries)
	assert.Equal(t, 3, report.SuccessCount)
	assert.Equal(t, 1, report.FailureCount)
	assert.Equal(t, 2, report.ByOperation[auditDomain.OperationRead])
	assert.Equal(t, 1, report.ByOperation[auditDomain.OperationWrite])
	assert.Equal(t, 1, report.ByOperation[auditDomain.OperationDelete])
	assert.Equal(t, 2, report.ByRiskLevel["low"])
	assert.Equal(t, 1, report.ByRiskLevel["medium"])
	assert.Equal(t, 1, report.ByRiskLevel["high"])

	require.NotEmpty(t, report.TopUsers)
	assert.Equal(t, "alice", report.TopUsers[0].Subject)
	assert.Equal(t, 2, report.TopUsers[0].Count)
}

func TestComplianceReportCSV(t *testing.T) {
	logger := newReportLogger(t)

	data, err := logger.GenerateComplianceReport(time.Time{}, time.Time{}, auditDomain.ReportFormatCSV)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "section,subject,count")
	assert.Contains(t, out, "summary,total_entries,4")
	assert.Contains(t, out, "operation,read,2")
	assert.Contains(t, out, "top_user,alice,2")
}

func TestComplianceReportHTML(t *testing.T) {
	logger := newReportLogger(t)

	data, err := logger.GenerateComplianceReport(time.Time{}, time.Time{}, auditDomain.ReportFormatHTML)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<td>alice</td>")
	assert.Contains(t, out, "Compliance Report")
}

func TestComplianceReportUnknownFormat(t *testing.T) {
	logger := newTestLogger()

	_, err := logger.GenerateComplianceReport(time.Time{}, time.Time{}, auditDomain.ReportFormat("pdf"))
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestComplianceReportWindow(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	logger := newTestLogger(withClock(func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}))

	for i := 0; i < 4; i++ {
		require.NoError(t, logger.LogRead(ctx, auditDomain.AuditEntry{Path: "app/timeout", UserID: "alice", Success: true}))
	}

	data, err := logger.GenerateComplianceReport(base.Add(2*time.Hour), base.Add(3*time.Hour), auditDomain.ReportFormatJSON)
	require.NoError(t, err)

	var report auditDomain.ComplianceReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.TotalEntries)
}
