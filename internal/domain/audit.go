package domain

import "time"

// Audit actions recorded by the admin services.
const (
	AuditRoleCreated        = "role.created"
	AuditRoleUpdated        = "role.updated"
	AuditRoleDeleted        = "role.deleted"
	AuditUserCreated        = "user.created"
	AuditUserRoleAssigned   = "user.role_assigned"
	AuditUserRoleRemoved    = "user.role_removed"
	AuditUserPermissionsSet = "user.permissions_updated"
	AuditUserBlacklisted    = "user.blacklisted"
	AuditUserReinstated     = "user.reinstated"
	AuditReportVerified     = "report.verified"
	AuditReportRejected     = "report.rejected"
	AuditReportDeleted      = "report.deleted"
)

type AuditLogEntry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	ActorName  string            `json:"actor_name"`
	Action     string            `json:"action"`
	TargetType string            `json:"target_type"`
	TargetID   string            `json:"target_id"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type AuditFilters struct {
	ActorID    string
	Action     string
	TargetType string
	Search     string
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	NextPage int  `json:"next_page,omitempty"`
	PrevPage int  `json:"prev_page,omitempty"`
}

type AuditPage struct {
	Entries []AuditLogEntry `json:"entries"`
	Paging  PagingInfo      `json:"paging"`
}

type AuditStats struct {
	Window         string         `json:"window"`
	Total          int            `json:"total"`
	ByAction       map[string]int `json:"by_action"`
	DistinctActors int            `json:"distinct_actors"`
	LastEntryAt    *time.Time     `json:"last_entry_at,omitempty"`
}
