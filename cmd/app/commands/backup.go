package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunBackup writes readable entries to a versioned JSON backup file.
// Without --include-encryption, sensitive entries are left out entirely.
func RunBackup(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	includeEncryption bool,
	userID string,
) error {
	if err := store.Backup(ctx, path, includeEncryption, userID); err != nil {
		return fmt.Errorf("failed to back up to %q: %w", path, err)
	}

	logger.Info("backup written",
		slog.String("path", path),
		slog.Bool("include_encryption", includeEncryption),
	)
	_, _ = fmt.Fprintf(writer, "backup written to %s\n", path)
	return nil
}
