package commands

import (
	"context"
	"fmt"
	"io"

	cryptoService "github.com/allisson/configvault/internal/crypto/service"
)

// RunListKeys prints the enabled encryption key ids, marking the default.
func RunListKeys(
	ctx context.Context,
	encryptor cryptoService.Encryptor,
	writer io.Writer,
) error {
	keys, err := encryptor.ListAvailableKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	defaultKeyID := encryptor.DefaultKeyID()
	for _, keyID := range keys {
		if keyID == defaultKeyID {
			_, _ = fmt.Fprintf(writer, "%s (default)\n", keyID)
			continue
		}
		_, _ = fmt.Fprintln(writer, keyID)
	}
	return nil
}
