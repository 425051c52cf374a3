package authz

import (
	"fmt"
	"slices"

	"disaster-response/internal/domain"
)

// ValidatePermissionChanges checks whether acting may replace target's direct
// permissions with newPermissions. Only blockers make the change disallowed;
// warnings are advisory.
func ValidatePermissionChanges(target *domain.UserWithPermissions, newPermissions []domain.Permission, acting *domain.UserWithPermissions) domain.PermissionValidationResult {
	result := domain.PermissionValidationResult{
		MissingPermissions: []domain.Permission{},
		Warnings:           []string{},
		Blockers:           []string{},
	}
	if acting == nil {
		result.Blockers = append(result.Blockers, "no acting user")
		return result
	}
	if target == nil {
		result.Blockers = append(result.Blockers, "no target user")
		return result
	}

	for _, p := range newPermissions {
		if !p.Valid() {
			result.Blockers = append(result.Blockers, fmt.Sprintf("unknown permission %q", p))
		}
	}

	if !HasPermission(acting, domain.PermManagePermissions) {
		result.MissingPermissions = append(result.MissingPermissions, domain.PermManagePermissions)
		result.Blockers = append(result.Blockers, "acting user cannot manage permissions")
	}

	added, removed := diff(target.DirectPermissions, newPermissions)

	if !acting.IsSuperAdmin {
		for _, p := range added {
			if !p.Valid() || HasPermission(acting, p) {
				continue
			}
			result.MissingPermissions = append(result.MissingPermissions, p)
			result.Blockers = append(result.Blockers, fmt.Sprintf("cannot grant %q without holding it", p))
		}
	}

	for _, p := range append(slices.Clone(added), removed...) {
		meta, ok := catalog.Lookup(p)
		if !ok {
			continue
		}
		if meta.IsSystemCritical {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%q is a system-critical permission", p))
		}
		if meta.RequiresConfirmation {
			result.RequiresConfirmation = true
		}
	}

	if target.ID != "" && target.ID == acting.ID {
		result.Warnings = append(result.Warnings, "you are editing your own permissions")
	}

	result.Allowed = len(result.Blockers) == 0
	return result
}

// diff returns the permissions present in next but not current, and those
// present in current but not next. Order follows the input slices.
func diff(current, next []domain.Permission) (added, removed []domain.Permission) {
	for _, p := range next {
		if !slices.Contains(current, p) && !slices.Contains(added, p) {
			added = append(added, p)
		}
	}
	for _, p := range current {
		if !slices.Contains(next, p) && !slices.Contains(removed, p) {
			removed = append(removed, p)
		}
	}
	return added, removed
}

// ValidateRoleGrant checks a role bundle change from current to next. Every
// added permission must be held by acting unless acting is a super admin.
func ValidateRoleGrant(current, next []domain.Permission, acting *domain.UserWithPermissions) domain.PermissionValidationResult {
	result := domain.PermissionValidationResult{
		MissingPermissions: []domain.Permission{},
		Warnings:           []string{},
		Blockers:           []string{},
	}
	if acting == nil {
		result.Blockers = append(result.Blockers, "no acting user")
		return result
	}
	added, _ := diff(current, next)
	if !acting.IsSuperAdmin {
		for _, p := range added {
			if HasPermission(acting, p) {
				continue
			}
			result.MissingPermissions = append(result.MissingPermissions, p)
			result.Blockers = append(result.Blockers, fmt.Sprintf("cannot grant %q without holding it", p))
		}
	}
	for _, p := range added {
		if meta, ok := catalog.Lookup(p); ok && meta.IsSystemCritical {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%q is a system-critical permission", p))
		}
	}
	result.Allowed = len(result.Blockers) == 0
	return result
}
