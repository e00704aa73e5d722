package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunRewrap eagerly re-encrypts every sensitive entry under the given key.
func RunRewrap(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
	newKeyID, userID string,
) error {
	if newKeyID == "" {
		return fmt.Errorf("new key id is required")
	}

	report, err := store.RewrapAll(ctx, newKeyID, userID)
	if err != nil {
		return fmt.Errorf("failed to rewrap: %w", err)
	}

	logger.Info("rewrap completed",
		slog.String("new_key_id", newKeyID),
		slog.Int("rewrapped", report.Restored),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	writeRestoreReport(writer, report)

	if report.Failed > 0 {
		return fmt.Errorf("rewrap failed for %d entries", report.Failed)
	}
	return nil
}
