package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	storeDomain "github.com/allisson/configvault/internal/store/domain"
	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunRestore loads entries from a backup file. Existing keys and keys the
// user may not write are skipped, never overwritten.
func RunRestore(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
	path, userID string,
) error {
	report, err := store.Restore(ctx, path, userID)
	if err != nil {
		return fmt.Errorf("failed to restore from %q: %w", path, err)
	}

	logger.Info("restore completed",
		slog.String("path", path),
		slog.Int("restored", report.Restored),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	writeRestoreReport(writer, report)
	return nil
}

// writeRestoreReport prints a restore-shaped report in human-readable form.
func writeRestoreReport(writer io.Writer, report *storeDomain.RestoreReport) {
	_, _ = fmt.Fprintf(writer, "restored: %d\n", report.Restored)
	_, _ = fmt.Fprintf(writer, "skipped:  %d\n", report.Skipped)
	_, _ = fmt.Fprintf(writer, "failed:   %d\n", report.Failed)

	keys := make([]string, 0, len(report.Failures))
	for key := range report.Failures {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		_, _ = fmt.Fprintf(writer, "  %s: %s\n", key, report.Failures[key])
	}
}
