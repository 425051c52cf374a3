// Package authz evaluates permissions for users already resident in memory.
// The functions are pure and safe for concurrent use.
package authz

import (
	"slices"

	"disaster-response/internal/domain"
)

var catalog = domain.DefaultCatalog()

// HasPermission reports whether user holds permission. Super admins hold
// everything. Users without resolved effective permissions are checked
// against the static system role table by role name.
func HasPermission(user *domain.UserWithPermissions, permission domain.Permission) bool {
	if user == nil {
		return false
	}
	if user.IsSuperAdmin {
		return true
	}
	if user.EffectivePermissions != nil {
		return slices.Contains(user.EffectivePermissions, permission)
	}
	for _, role := range user.Roles {
		if slices.Contains(catalog.RolePermissions(role.Name), permission) {
			return true
		}
	}
	return false
}

// HasAnyPermission is false for an empty list.
func HasAnyPermission(user *domain.UserWithPermissions, permissions ...domain.Permission) bool {
	for _, p := range permissions {
		if HasPermission(user, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is true for an empty list.
func HasAllPermissions(user *domain.UserWithPermissions, permissions ...domain.Permission) bool {
	for _, p := range permissions {
		if !HasPermission(user, p) {
			return false
		}
	}
	return true
}

// EffectivePermissions returns the union of all role permissions and the
// direct permissions, deduplicated and sorted.
func EffectivePermissions(roles []domain.Role, direct []domain.Permission) []domain.Permission {
	set := make(map[domain.Permission]struct{})
	for _, role := range roles {
		for _, p := range role.Permissions {
			set[p] = struct{}{}
		}
	}
	for _, p := range direct {
		set[p] = struct{}{}
	}
	out := make([]domain.Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Resolve fills user.EffectivePermissions. Super admins always resolve to the
// full permission table.
func Resolve(user *domain.UserWithPermissions) {
	if user == nil {
		return
	}
	if user.IsSuperAdmin {
		all := slices.Clone(domain.AllPermissions)
		slices.Sort(all)
		user.EffectivePermissions = all
		return
	}
	user.EffectivePermissions = EffectivePermissions(user.Roles, user.DirectPermissions)
}

// GroupByCategory buckets permission metadata by category, keeping catalog
// order inside each bucket.
func GroupByCategory(metadata []domain.PermissionMetadata) map[domain.PermissionCategory][]domain.PermissionMetadata {
	out := make(map[domain.PermissionCategory][]domain.PermissionMetadata)
	for _, meta := range metadata {
		out[meta.Category] = append(out[meta.Category], meta)
	}
	return out
}
