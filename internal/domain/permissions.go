package domain

// Permission identifies one fine-grained capability.
type Permission string

const (
	PermViewUser      Permission = "view_user"
	PermCreateUser    Permission = "create_user"
	PermEditUser      Permission = "edit_user"
	PermDeleteUser    Permission = "delete_user"
	PermBlacklistUser Permission = "blacklist_user"

	PermViewRole   Permission = "view_role"
	PermCreateRole Permission = "create_role"
	PermEditRole   Permission = "edit_role"
	PermDeleteRole Permission = "delete_role"
	PermAssignRole Permission = "assign_role"

	PermViewPermissions   Permission = "view_permissions"
	PermManagePermissions Permission = "manage_permissions"

	PermViewReport    Permission = "view_report"
	PermCreateReport  Permission = "create_report"
	PermEditReport    Permission = "edit_report"
	PermDeleteReport  Permission = "delete_report"
	PermVerifyReport  Permission = "verify_report"
	PermPublishReport Permission = "publish_report"

	PermViewAuditLog   Permission = "view_audit_log"
	PermExportAuditLog Permission = "export_audit_log"

	PermViewDashboard        Permission = "view_dashboard"
	PermManageSystemSettings Permission = "manage_system_settings"
)

// AllPermissions lists every known permission in catalog order.
var AllPermissions = []Permission{
	PermViewUser, PermCreateUser, PermEditUser, PermDeleteUser, PermBlacklistUser,
	PermViewRole, PermCreateRole, PermEditRole, PermDeleteRole, PermAssignRole,
	PermViewPermissions, PermManagePermissions,
	PermViewReport, PermCreateReport, PermEditReport, PermDeleteReport, PermVerifyReport, PermPublishReport,
	PermViewAuditLog, PermExportAuditLog,
	PermViewDashboard, PermManageSystemSettings,
}

var knownPermissions = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		m[p] = struct{}{}
	}
	return m
}()

// Valid reports whether p is part of the static permission table.
func (p Permission) Valid() bool {
	_, ok := knownPermissions[p]
	return ok
}

type PermissionCategory string

const (
	CategoryUserManagement       PermissionCategory = "user_management"
	CategoryRoleManagement       PermissionCategory = "role_management"
	CategoryPermissionManagement PermissionCategory = "permission_management"
	CategoryReportManagement     PermissionCategory = "report_management"
	CategoryAudit                PermissionCategory = "audit"
	CategorySystem               PermissionCategory = "system"
)

type PermissionMetadata struct {
	Permission           Permission         `json:"permission" yaml:"permission"`
	DisplayName          string             `json:"display_name" yaml:"display_name"`
	Description          string             `json:"description" yaml:"description"`
	Category             PermissionCategory `json:"category" yaml:"category"`
	IsSystemCritical     bool               `json:"is_system_critical" yaml:"system_critical"`
	RequiresConfirmation bool               `json:"requires_confirmation" yaml:"requires_confirmation"`
}

// System role names. These roles are fixed and cannot be edited or deleted.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleCJ         = "cj"
	RoleUser       = "user"
)
