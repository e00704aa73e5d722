package commands

import (
	"context"
	"fmt"
	"io"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunExists reports whether a configuration key exists and is readable by
// the user.
func RunExists(
	ctx context.Context,
	store storeUsecase.SecureStore,
	writer io.Writer,
	key, userID string,
) error {
	exists := store.ConfigurationExists(ctx, key, userID)
	_, _ = fmt.Fprintf(writer, "%t\n", exists)
	return nil
}
