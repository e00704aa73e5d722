package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

// RunMetadata prints the metadata of the given keys as indented JSON. Keys
// the user may not read are omitted.
func RunMetadata(
	ctx context.Context,
	store storeUsecase.SecureStore,
	writer io.Writer,
	keys []string,
	userID string,
) error {
	metadata, err := store.GetConfigurationMetadata(ctx, keys, userID)
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return nil
}
