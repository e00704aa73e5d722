// Package domain defines the role-based access control domain models.
//
// Permissions derive from role membership: a user's effective permission set
// is the union of the permissions of every role assigned to them. Paths that
// look like they hold secrets additionally require Administrator privilege
// regardless of nominal role permissions.
package domain

import (
	"strings"

	"github.com/allisson/configvault/internal/errors"
)

// Role is a fixed privilege tier. Ordering is ascending privilege:
// Guest < User < PowerUser < Administrator < System.
type Role int

const (
	// RoleGuest is the implicit role of users with no assignments:
	// read-only on non-sensitive paths.
	RoleGuest Role = iota
	// RoleUser can read and write non-sensitive paths.
	RoleUser
	// RolePowerUser can additionally delete non-sensitive paths.
	RolePowerUser
	// RoleAdministrator holds all permissions, including sensitive paths.
	RoleAdministrator
	// RoleSystem is reserved for internal operations; same permissions as
	// Administrator but audited at Critical risk.
	RoleSystem
)

// String returns the canonical role name.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleUser:
		return "user"
	case RolePowerUser:
		return "poweruser"
	case RoleAdministrator:
		return "administrator"
	case RoleSystem:
		return "system"
	default:
		return "unknown"
	}
}

// ParseRole converts a role name into a Role. Matching is case-insensitive.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(name) {
	case "guest":
		return RoleGuest, nil
	case "user":
		return RoleUser, nil
	case "poweruser":
		return RolePowerUser, nil
	case "administrator":
		return RoleAdministrator, nil
	case "system":
		return RoleSystem, nil
	default:
		return RoleGuest, errors.Wrapf(errors.ErrInvalidArgument, "unknown role %q", name)
	}
}

// Permission is a bitset of the verbs a caller may perform.
type Permission uint8

const (
	// PermissionRead allows reading configuration values.
	PermissionRead Permission = 1 << iota
	// PermissionWrite allows creating or updating configuration values.
	PermissionWrite
	// PermissionDelete allows removing configuration values.
	PermissionDelete

	// PermissionNone is the empty permission set.
	PermissionNone Permission = 0
)

// Has reports whether every bit of p2 is present in p.
func (p Permission) Has(p2 Permission) bool {
	return p&p2 == p2
}

// rolePermissions is the fixed role → permission mapping.
var rolePermissions = map[Role]Permission{
	RoleGuest:         PermissionRead,
	RoleUser:          PermissionRead | PermissionWrite,
	RolePowerUser:     PermissionRead | PermissionWrite | PermissionDelete,
	RoleAdministrator: PermissionRead | PermissionWrite | PermissionDelete,
	RoleSystem:        PermissionRead | PermissionWrite | PermissionDelete,
}

// Permissions returns the permission set granted by a single role.
func (r Role) Permissions() Permission {
	return rolePermissions[r]
}
