package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"guest", RoleGuest, false},
		{"user", RoleUser, false},
		{"poweruser", RolePowerUser, false},
		{"administrator", RoleAdministrator, false},
		{"system", RoleSystem, false},
		{"Administrator", RoleAdministrator, false},
		{"root", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestRolePermissions(t *testing.T) {
	assert.Equal(t, PermissionRead, RoleGuest.Permissions())
	assert.Equal(t, PermissionRead|PermissionWrite, RoleUser.Permissions())
	assert.Equal(t, PermissionRead|PermissionWrite|PermissionDelete, RolePowerUser.Permissions())
	assert.Equal(t, PermissionRead|PermissionWrite|PermissionDelete, RoleAdministrator.Permissions())
	assert.Equal(t, PermissionRead|PermissionWrite|PermissionDelete, RoleSystem.Permissions())
}

func TestPermissionHas(t *testing.T) {
	perms := PermissionRead | PermissionDelete
	assert.True(t, perms.Has(PermissionRead))
	assert.False(t, perms.Has(PermissionWrite))
	assert.True(t, perms.Has(PermissionDelete))
	assert.False(t, PermissionNone.Has(PermissionRead))
}

func TestIsSensitivePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"db/password", true},
		{"DB/PASSWORD", true},
		{"api/secret-token", true},
		{"services/payment/apikey", true},
		{"legacy/ConnectionString", true},
		{"vault/credentials", true},
		{"app/timeout", false},
		{"features/dark-mode", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSensitivePath(tt.path))
		})
	}
}
