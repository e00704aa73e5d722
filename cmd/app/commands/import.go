package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunImport loads dotenv-formatted configuration from a file, or from the
// reader when no file is given. Keys whose names match the sensitive-path
// heuristic are stored encrypted.
func RunImport(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	file, userID string,
) error {
	var source []byte
	var err error
	if file != "" {
		source, err = os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", file, err)
		}
	} else {
		source, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	report, err := store.Import(ctx, string(source), userID)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	logger.Info("import completed",
		slog.Int("imported", report.Restored),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	writeRestoreReport(writer, report)
	return nil
}
