package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunSet stores a configuration value under the given key. Sensitive values
// are encrypted before they reach the storage backend.
func RunSet(
	ctx context.Context,
	store storeUsecase.SecureStore,
	logger *slog.Logger,
	writer io.Writer,
	key, value string,
	sensitive bool,
	userID string,
) error {
	if err := store.Set(ctx, key, value, sensitive, userID); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	logger.Info("configuration value stored",
		slog.String("key", key),
		slog.Bool("sensitive", sensitive),
		slog.String("user_id", userID),
	)
	_, _ = fmt.Fprintf(writer, "stored %s\n", key)
	return nil
}
