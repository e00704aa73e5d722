package commands

import (
	"fmt"
	"io"
	"log/slog"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	auditService "github.com/allisson/configvault/internal/audit/service"
)

// RunAuditReport generates a compliance report over the given window and
// writes it in the requested format (json, csv, or html).
func RunAuditReport(
	audit auditService.Logger,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate, format string,
) error {
	start, err := parseDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	end, err := parseDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	if !end.After(start) {
		return fmt.Errorf("end date must be after start date")
	}

	report, err := audit.GenerateComplianceReport(start, end, auditDomain.ReportFormat(format))
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	logger.Info("compliance report generated",
		slog.Time("start_date", start),
		slog.Time("end_date", end),
		slog.String("format", format),
	)
	_, _ = writer.Write(report)
	return nil
}
