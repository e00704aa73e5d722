package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	cryptoService "github.com/allisson/configvault/internal/crypto/service"
)

// RunCreateProviderKey generates a fresh 32-byte key, wraps it through the
// KMS keeper, and prints the environment lines to carry it. Plaintext key
// material never reaches the output; only the wrapped ciphertext does.
func RunCreateProviderKey(
	ctx context.Context,
	kms cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID, kmsKeyURI, existingProviderKeys string,
) error {
	if kmsKeyURI == "" {
		return fmt.Errorf("kms key uri is required")
	}
	if keyID == "" {
		keyID = fmt.Sprintf("key-%s", uuid.Must(uuid.NewV7()).String())
	}

	keeper, err := kms.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	provider, err := cryptoService.NewKeeperKeyProvider(keeper, existingProviderKeys)
	if err != nil {
		return fmt.Errorf("failed to load existing provider keys: %w", err)
	}

	handle, err := provider.CreateKey(ctx, keyID, cryptoDomain.KeySpec{Size: 32})
	if err != nil {
		return fmt.Errorf("failed to create provider key: %w", err)
	}
	cryptoDomain.Zero(handle.Material)

	wrapped, ok := provider.WrappedKey(keyID)
	if !ok {
		return fmt.Errorf("wrapped key %q not found after creation", keyID)
	}

	logger.Info("provider key created",
		slog.String("key_id", keyID),
		slog.String("kms_key_uri", kmsKeyURI),
	)

	_, _ = fmt.Fprintf(writer, "Provider key created. Set the following environment variables:\n\n")
	if existingProviderKeys != "" {
		_, _ = fmt.Fprintf(writer, "PROVIDER_KEYS=%s,%s:%s\n", existingProviderKeys, keyID, wrapped)
	} else {
		_, _ = fmt.Fprintf(writer, "PROVIDER_KEYS=%s:%s\n", keyID, wrapped)
	}
	_, _ = fmt.Fprintf(writer, "DEFAULT_KEY_ID=%s\n", keyID)
	return nil
}
