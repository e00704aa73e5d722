package commands

import (
	"context"
	"fmt"
	"io"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunKeys lists configuration keys matching a glob pattern, filtered to the
// keys the user may read.
func RunKeys(
	ctx context.Context,
	store storeUsecase.SecureStore,
	writer io.Writer,
	pattern, userID string,
) error {
	keys, err := store.GetConfigurationKeys(ctx, pattern, userID)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	for _, key := range keys {
		_, _ = fmt.Fprintln(writer, key)
	}
	return nil
}
