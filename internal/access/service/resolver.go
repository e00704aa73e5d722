// Package service implements the access control resolver that answers
// "may this user perform this verb on this path" for the secure store.
package service

import (
	"sort"
	"strings"
	"sync"

	accessDomain "github.com/allisson/configvault/internal/access/domain"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// Resolver computes effective permissions from role assignments.
//
// The assignment table is owned by the instance and guarded by a read-write
// mutex: permission checks vastly outnumber role changes, so readers share
// the lock. A user with no assignments holds the implicit Guest permission
// set (read-only on non-sensitive paths).
type Resolver struct {
	mu    sync.RWMutex
	roles map[string]map[accessDomain.Role]struct{}
}

// NewResolver creates a resolver with an empty assignment table.
func NewResolver() *Resolver {
	return &Resolver{
		roles: make(map[string]map[accessDomain.Role]struct{}),
	}
}

// AddUserToRole assigns a role to a user. Idempotent.
func (r *Resolver) AddUserToRole(userID string, role accessDomain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assigned, ok := r.roles[userID]
	if !ok {
		assigned = make(map[accessDomain.Role]struct{})
		r.roles[userID] = assigned
	}
	assigned[role] = struct{}{}
}

// RemoveUserFromRole removes a role assignment. Idempotent; removing the last
// role leaves the user with the implicit Guest permission set.
func (r *Resolver) RemoveUserFromRole(userID string, role accessDomain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assigned, ok := r.roles[userID]
	if !ok {
		return
	}
	delete(assigned, role)
	if len(assigned) == 0 {
		delete(r.roles, userID)
	}
}

// GetUserRoles returns the roles assigned to a user, sorted ascending by
// privilege. Users with no assignments return an empty slice.
func (r *Resolver) GetUserRoles(userID string) []accessDomain.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assigned := r.roles[userID]
	roles := make([]accessDomain.Role, 0, len(assigned))
	for role := range assigned {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// LoadAssignments replaces the assignment table with pairs parsed from a
// "user:role,user:role" string, the ROLE_ASSIGNMENTS environment format.
// A user may appear in several pairs to hold several roles. An empty string
// clears the table.
func (r *Resolver) LoadAssignments(assignments string) error {
	roles := make(map[string]map[accessDomain.Role]struct{})
	for _, pair := range strings.Split(assignments, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		userID, roleName, found := strings.Cut(pair, ":")
		if !found || userID == "" {
			return apperrors.Wrapf(apperrors.ErrInvalidArgument, "malformed role assignment %q", pair)
		}
		role, err := accessDomain.ParseRole(roleName)
		if err != nil {
			return err
		}
		assigned, ok := roles[userID]
		if !ok {
			assigned = make(map[accessDomain.Role]struct{})
			roles[userID] = assigned
		}
		assigned[role] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles = roles
	return nil
}

// Assignments serializes the assignment table back into the
// "user:role,user:role" format, sorted by user then role.
func (r *Resolver) Assignments() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.roles))
	for userID := range r.roles {
		users = append(users, userID)
	}
	sort.Strings(users)

	var pairs []string
	for _, userID := range users {
		assigned := r.roles[userID]
		roles := make([]accessDomain.Role, 0, len(assigned))
		for role := range assigned {
			roles = append(roles, role)
		}
		sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
		for _, role := range roles {
			pairs = append(pairs, userID+":"+role.String())
		}
	}
	return strings.Join(pairs, ",")
}

// effective returns the union of the user's role permissions and the highest
// role held. Most-privileged wins per verb, never an intersection.
func (r *Resolver) effective(userID string) (accessDomain.Permission, accessDomain.Role) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assigned, ok := r.roles[userID]
	if !ok || len(assigned) == 0 {
		return accessDomain.RoleGuest.Permissions(), accessDomain.RoleGuest
	}

	permissions := accessDomain.PermissionNone
	highest := accessDomain.RoleGuest
	for role := range assigned {
		permissions |= role.Permissions()
		if role > highest {
			highest = role
		}
	}
	return permissions, highest
}

// GetPermissions returns the resolved permission bitset for a user on a path.
// Sensitive paths resolve to the empty set unless the user's highest role is
// at least Administrator.
func (r *Resolver) GetPermissions(path, userID string) accessDomain.Permission {
	permissions, highest := r.effective(userID)
	if accessDomain.IsSensitivePath(path) && highest < accessDomain.RoleAdministrator {
		return accessDomain.PermissionNone
	}
	return permissions
}

// CanRead reports whether the user may read the path.
func (r *Resolver) CanRead(path, userID string) bool {
	return r.GetPermissions(path, userID).Has(accessDomain.PermissionRead)
}

// CanWrite reports whether the user may write the path.
func (r *Resolver) CanWrite(path, userID string) bool {
	return r.GetPermissions(path, userID).Has(accessDomain.PermissionWrite)
}

// CanDelete reports whether the user may delete the path.
func (r *Resolver) CanDelete(path, userID string) bool {
	return r.GetPermissions(path, userID).Has(accessDomain.PermissionDelete)
}
