package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunVerifyIntegrity sweeps every encrypted entry and validates its
// integrity tag. Returns an error when any entry fails so the process exits
// non-zero.
func RunVerifyIntegrity(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
) error {
	report, err := store.ValidateIntegrity(ctx)
	if err != nil {
		return fmt.Errorf("failed to validate integrity: %w", err)
	}

	logger.Info("integrity sweep completed",
		slog.Int("total", report.Total),
		slog.Int("valid", report.Valid),
		slog.Int("invalid", report.Invalid),
	)

	_, _ = fmt.Fprintf(writer, "checked: %d\n", report.Total)
	_, _ = fmt.Fprintf(writer, "valid:   %d\n", report.Valid)
	_, _ = fmt.Fprintf(writer, "invalid: %d\n", report.Invalid)

	keys := make([]string, 0, len(report.Failures))
	for key := range report.Failures {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		_, _ = fmt.Fprintf(writer, "  %s: %s\n", key, report.Failures[key])
	}

	if report.Invalid > 0 {
		return fmt.Errorf("integrity check failed: %d invalid entries", report.Invalid)
	}
	return nil
}
