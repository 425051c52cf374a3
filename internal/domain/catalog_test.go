package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_CoversEveryPermission(t *testing.T) {
	c := DefaultCatalog()
	for _, p := range AllPermissions {
		meta, ok := c.Lookup(p)
		require.True(t, ok, "missing metadata for %s", p)
		assert.NotEmpty(t, meta.DisplayName)
		assert.NotEmpty(t, meta.Category)
	}
	assert.Len(t, c.Metadata(), len(AllPermissions))
}

func TestDefaultCatalog_SystemRoles(t *testing.T) {
	c := DefaultCatalog()
	names := []string{}
	for _, r := range c.SystemRoles() {
		assert.True(t, r.IsSystemRole)
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{RoleSuperAdmin, RoleAdmin, RoleCJ, RoleUser}, names)

	superAdmin, ok := c.SystemRole(RoleSuperAdmin)
	require.True(t, ok)
	assert.ElementsMatch(t, AllPermissions, superAdmin.Permissions)
	assert.Contains(t, c.RolePermissions(RoleUser), PermCreateReport)
	assert.False(t, c.IsSystemRole("field_medic"))
}

func TestDefaultCatalog_CopiesAreIsolated(t *testing.T) {
	c := DefaultCatalog()
	roles := c.SystemRoles()
	roles[0].Permissions[0] = "tampered"

	again := c.SystemRoles()
	assert.NotEqual(t, Permission("tampered"), again[0].Permissions[0])
}

func TestParseCatalog_RejectsUnknownPermission(t *testing.T) {
	_, err := ParseCatalog([]byte("permissions:\n  - permission: launch_rockets\n"))
	assert.ErrorContains(t, err, "unknown permission")
}

func TestParseCatalog_RejectsMissingMetadata(t *testing.T) {
	_, err := ParseCatalog([]byte("permissions:\n  - permission: view_user\n    display_name: View users\n"))
	assert.ErrorContains(t, err, "missing metadata")
}

func TestPermissionChangeError_UnwrapsToDenied(t *testing.T) {
	err := &PermissionChangeError{Result: PermissionValidationResult{Blockers: []string{"nope"}}}
	assert.ErrorIs(t, err, ErrPermissionDeny)
	assert.Contains(t, err.Error(), "nope")
}
