package usecase

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeDomain "github.com/allisson/configvault/internal/store/domain"
)

// ValidateIntegrity sweeps every encrypted payload in the store and checks
// its integrity tag. Failures are collected into the report; the sweep only
// aborts early on context cancellation.
func (s *SecureStoreService) ValidateIntegrity(ctx context.Context) (*storeDomain.IntegrityReport, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list entries for integrity sweep")
	}

	report := &storeDomain.IntegrityReport{
		Failures: make(map[string]string),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweepWorkers)

	for _, entry := range entries {
		if !entry.IsSensitive {
			continue
		}
		report.Total++

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			valid, err := s.encryptor.ValidateIntegrity(gctx, entry.Payload)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Invalid++
				report.Failures[entry.Key] = err.Error()
			case !valid:
				report.Invalid++
				report.Failures[entry.Key] = "integrity tag mismatch"
			default:
				report.Valid++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, "integrity sweep")
	}

	_ = s.audit.LogSystemEvent(ctx, auditDomain.AuditEntry{
		Path:    "integrity-sweep",
		UserID:  "system",
		Success: report.Invalid == 0,
		Metadata: map[string]string{
			"total":   strconv.Itoa(report.Total),
			"valid":   strconv.Itoa(report.Valid),
			"invalid": strconv.Itoa(report.Invalid),
		},
	})
	return report, nil
}
