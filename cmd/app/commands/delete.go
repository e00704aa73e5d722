package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunDelete removes a configuration key. Deleting a missing key is not an
// error.
func RunDelete(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
	key, userID string,
) error {
	deleted, err := store.Delete(ctx, key, userID)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	if !deleted {
		_, _ = fmt.Fprintf(writer, "%s: not found\n", key)
		return nil
	}

	logger.Info("configuration key deleted",
		slog.String("key", key),
		slog.String("user_id", userID),
	)
	_, _ = fmt.Fprintf(writer, "deleted %s\n", key)
	return nil
}
