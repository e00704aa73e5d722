package commands

import (
	"context"
	"fmt"
	"io"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunExport writes the user's readable configuration as dotenv text.
// Sensitive values are decrypted, so the output must be handled with the
// same care as the store itself.
func RunExport(
	ctx context.Context,
	store storeUsecase.SecureStore,
	writer io.Writer,
	userID string,
) error {
	out, err := store.Export(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	_, _ = fmt.Fprintln(writer, out)
	return nil
}
