package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accessDomain "github.com/allisson/configvault/internal/access/domain"
	accessService "github.com/allisson/configvault/internal/access/service"
	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	auditService "github.com/allisson/configvault/internal/audit/service"
)

// RunGrantRole adds a role assignment, records the change in the audit
// trail, and prints the updated ROLE_ASSIGNMENTS value. Assignments live in
// the environment, so the printed line must be exported for the change to
// persist.
func RunGrantRole(
	ctx context.Context,
	resolver *accessService.Resolver,
	audit auditService.Logger,
	logger *slog.Logger,
	writer io.Writer,
	userID, roleName string,
) error {
	role, err := accessDomain.ParseRole(roleName)
	if err != nil {
		return err
	}

	resolver.AddUserToRole(userID, role)
	if err := audit.LogAccessControlChange(ctx, auditDomain.AuditEntry{
		Path:    "roles/" + userID,
		UserID:  userID,
		Success: true,
		Metadata: map[string]string{
			"action": "grant",
			"role":   role.String(),
		},
	}); err != nil {
		return err
	}

	logger.Info("role granted",
		slog.String("user_id", userID),
		slog.String("role", role.String()),
	)
	_, _ = fmt.Fprintf(writer, "ROLE_ASSIGNMENTS=%s\n", resolver.Assignments())
	return nil
}

// RunRevokeRole removes a role assignment, records the change in the audit
// trail, and prints the updated ROLE_ASSIGNMENTS value.
func RunRevokeRole(
	ctx context.Context,
	resolver *accessService.Resolver,
	audit auditService.Logger,
	logger *slog.Logger,
	writer io.Writer,
	userID, roleName string,
) error {
	role, err := accessDomain.ParseRole(roleName)
	if err != nil {
		return err
	}

	resolver.RemoveUserFromRole(userID, role)
	if err := audit.LogAccessControlChange(ctx, auditDomain.AuditEntry{
		Path:    "roles/" + userID,
		UserID:  userID,
		Success: true,
		Metadata: map[string]string{
			"action": "revoke",
			"role":   role.String(),
		},
	}); err != nil {
		return err
	}

	logger.Info("role revoked",
		slog.String("user_id", userID),
		slog.String("role", role.String()),
	)
	_, _ = fmt.Fprintf(writer, "ROLE_ASSIGNMENTS=%s\n", resolver.Assignments())
	return nil
}

// RunUserRoles prints the roles assigned to a user. Users with no
// assignments hold the implicit guest permission set.
func RunUserRoles(
	resolver *accessService.Resolver,
	writer io.Writer,
	userID string,
) error {
	roles := resolver.GetUserRoles(userID)
	if len(roles) == 0 {
		_, _ = fmt.Fprintf(writer, "%s: no roles (implicit guest)\n", userID)
		return nil
	}

	for _, role := range roles {
		_, _ = fmt.Fprintln(writer, role.String())
	}
	return nil
}
