package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"html/template"
	"sort"
	"strconv"
	"time"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	"github.com/allisson/configvault/internal/errors"
)

// topSubjects is how many users and paths a compliance report lists.
const topSubjects = 10

// GenerateComplianceReport aggregates the trail over [from, to] and renders
// the aggregate in the requested format.
func (l *AuditLoggerService) GenerateComplianceReport(from, to time.Time, format auditDomain.ReportFormat) ([]byte, error) {
	report := l.buildReport(from, to)

	switch format {
	case auditDomain.ReportFormatJSON:
		return renderJSON(report)
	case auditDomain.ReportFormatCSV:
		return renderCSV(report)
	case auditDomain.ReportFormatHTML:
		return renderHTML(report)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unsupported report format %q", format)
	}
}

func (l *AuditLoggerService) buildReport(from, to time.Time) *auditDomain.ComplianceReport {
	entries := l.snapshot(from, to)

	report := &auditDomain.ComplianceReport{
		GeneratedAt:  l.now().UTC(),
		From:         from,
		To:           to,
		TotalEntries: len(entries),
		ByOperation:  make(map[auditDomain.OperationType]int),
		ByRiskLevel:  make(map[string]int),
	}

	userCounts := make(map[string]int)
	pathCounts := make(map[string]int)
	for i := range entries {
		e := &entries[i]
		if e.Success {
			report.SuccessCount++
		} else {
			report.FailureCount++
		}
		report.ByOperation[e.Operation]++
		report.ByRiskLevel[e.RiskLevel.String()]++
		userCounts[e.UserID]++
		pathCounts[e.Path]++
	}

	report.TopUsers = topN(userCounts, topSubjects)
	report.TopPaths = topN(pathCounts, topSubjects)
	return report
}

// topN returns the n highest counts, ties broken by subject for determinism.
func topN(counts map[string]int, n int) []auditDomain.SubjectCount {
	subjects := make([]auditDomain.SubjectCount, 0, len(counts))
	for subject, count := range counts {
		subjects = append(subjects, auditDomain.SubjectCount{Subject: subject, Count: count})
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Count != subjects[j].Count {
			return subjects[i].Count > subjects[j].Count
		}
		return subjects[i].Subject < subjects[j].Subject
	})
	if len(subjects) > n {
		subjects = subjects[:n]
	}
	return subjects
}

func renderJSON(report *auditDomain.ComplianceReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrSerialization, "marshal compliance report")
	}
	return data, nil
}

func renderCSV(report *auditDomain.ComplianceReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "subject", "count"},
		{"summary", "total_entries", strconv.Itoa(report.TotalEntries)},
		{"summary", "success", strconv.Itoa(report.SuccessCount)},
		{"summary", "failure", strconv.Itoa(report.FailureCount)},
	}
	for _, op := range sortedOperationKeys(report.ByOperation) {
		rows = append(rows, []string{"operation", string(op), strconv.Itoa(report.ByOperation[op])})
	}
	for _, risk := range sortedStringKeys(report.ByRiskLevel) {
		rows = append(rows, []string{"risk_level", risk, strconv.Itoa(report.ByRiskLevel[risk])})
	}
	for _, sc := range report.TopUsers {
		rows = append(rows, []string{"top_user", sc.Subject, strconv.Itoa(sc.Count)})
	}
	for _, sc := range report.TopPaths {
		rows = append(rows, []string{"top_path", sc.Subject, strconv.Itoa(sc.Count)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(errors.ErrSerialization, "write compliance report csv")
	}
	return buf.Bytes(), nil
}

func sortedOperationKeys(m map[auditDomain.OperationType]int) []auditDomain.OperationType {
	keys := make([]auditDomain.OperationType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedStringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>Compliance Report</title></head>
<body>
<h1>Compliance Report</h1>
<p>Generated at {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
<h2>Summary</h2>
<table border="1">
<tr><td>Total entries</td><td>{{.TotalEntries}}</td></tr>
<tr><td>Successful</td><td>{{.SuccessCount}}</td></tr>
<tr><td>Failed</td><td>{{.FailureCount}}</td></tr>
</table>
<h2>By operation</h2>
<table border="1">
{{range $op, $count := .ByOperation}}<tr><td>{{$op}}</td><td>{{$count}}</td></tr>
{{end}}</table>
<h2>By risk level</h2>
<table border="1">
{{range $risk, $count := .ByRiskLevel}}<tr><td>{{$risk}}</td><td>{{$count}}</td></tr>
{{end}}</table>
<h2>Top users</h2>
<table border="1">
{{range .TopUsers}}<tr><td>{{.Subject}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
<h2>Top paths</h2>
<table border="1">
{{range .TopPaths}}<tr><td>{{.Subject}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func renderHTML(report *auditDomain.ComplianceReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, errors.Wrap(errors.ErrSerialization, "render compliance report html")
	}
	return buf.Bytes(), nil
}
