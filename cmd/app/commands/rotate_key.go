package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	auditService "github.com/allisson/configvault/internal/audit/service"
	cryptoService "github.com/allisson/configvault/internal/crypto/service"
)

// RunRotateKey switches the default encryption key and records the rotation
// in the audit trail. Existing payloads stay under their current key; use
// rewrap for eager re-encryption.
func RunRotateKey(
	ctx context.Context,
	encryptor cryptoService.Encryptor,
	audit auditService.Logger,
	logger *slog.Logger,
	writer io.Writer,
	newKeyID, userID string,
) error {
	if newKeyID == "" {
		return fmt.Errorf("new key id is required")
	}

	oldKeyID := encryptor.DefaultKeyID()
	metadata := map[string]string{
		"old_key_id": oldKeyID,
		"new_key_id": newKeyID,
	}

	if err := encryptor.RotateKey(ctx, oldKeyID, newKeyID); err != nil {
		_ = audit.LogKeyRotation(ctx, auditDomain.AuditEntry{
			Path:         "keys/" + newKeyID,
			UserID:       userID,
			Success:      false,
			ErrorMessage: err.Error(),
			Metadata:     metadata,
		})
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	if err := audit.LogKeyRotation(ctx, auditDomain.AuditEntry{
		Path:     "keys/" + newKeyID,
		UserID:   userID,
		Success:  true,
		Metadata: metadata,
	}); err != nil {
		return err
	}

	logger.Info("default key rotated",
		slog.String("old_key_id", oldKeyID),
		slog.String("new_key_id", newKeyID),
	)
	_, _ = fmt.Fprintf(writer, "default key is now %s (was %s)\n", newKeyID, oldKeyID)
	return nil
}
