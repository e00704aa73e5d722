package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunGet fetches a configuration value and prints it. A missing key is not
// an error; it prints a "not found" marker and returns nil.
func RunGet(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
	key, userID string,
) error {
	value, err := store.Get(ctx, key, userID)
	if err != nil {
		return fmt.Errorf("failed to get %q: %w", key, err)
	}
	if value == nil {
		logger.Info("configuration key not found", slog.String("key", key))
		_, _ = fmt.Fprintf(writer, "%s: not found\n", key)
		return nil
	}

	_, _ = fmt.Fprintln(writer, *value)
	return nil
}
