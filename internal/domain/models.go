package domain

import "time"

type Role struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DisplayName  string       `json:"display_name"`
	Description  string       `json:"description"`
	Permissions  []Permission `json:"permissions"`
	IsSystemRole bool         `json:"is_system_role"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UserWithPermissions is a user as seen by the authorization layer.
// EffectivePermissions is nil until resolved; a nil value makes permission
// checks fall back to the static system role table.
type UserWithPermissions struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Email                string       `json:"email"`
	Roles                []Role       `json:"roles"`
	DirectPermissions    []Permission `json:"direct_permissions"`
	EffectivePermissions []Permission `json:"effective_permissions"`
	IsBlacklisted        bool         `json:"is_blacklisted"`
	IsSuperAdmin         bool         `json:"is_super_admin"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// UserRecord is the stored form of a user; roles are kept by id.
type UserRecord struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	RoleIDs           []string     `json:"role_ids"`
	DirectPermissions []Permission `json:"direct_permissions"`
	IsBlacklisted     bool         `json:"is_blacklisted"`
	IsSuperAdmin      bool         `json:"is_super_admin"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type PermissionValidationResult struct {
	Allowed              bool         `json:"allowed"`
	MissingPermissions   []Permission `json:"missing_permissions"`
	Warnings             []string     `json:"warnings"`
	Blockers             []string     `json:"blockers"`
	RequiresConfirmation bool         `json:"requires_confirmation"`
}

// PermissionChangeError carries the validation result that rejected a change.
type PermissionChangeError struct {
	Result PermissionValidationResult
}

func (e *PermissionChangeError) Error() string {
	if len(e.Result.Blockers) > 0 {
		return "permission change rejected: " + e.Result.Blockers[0]
	}
	return "permission change rejected"
}

func (e *PermissionChangeError) Unwrap() error { return ErrPermissionDeny }
