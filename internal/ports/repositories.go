package ports

import (
	"context"
	"time"

	"disaster-response/internal/domain"
)

type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	Update(ctx context.Context, role domain.Role) error
	Delete(ctx context.Context, roleID string) error
	GetByID(ctx context.Context, roleID string) (domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}

type UserRepository interface {
	Create(ctx context.Context, user domain.UserRecord) error
	Save(ctx context.Context, user domain.UserRecord) error
	GetByID(ctx context.Context, userID string) (domain.UserRecord, error)
	List(ctx context.Context) ([]domain.UserRecord, error)
}

type AuditLogRepository interface {
	Append(ctx context.Context, entry domain.AuditLogEntry) error
	// ListRange returns entries created within [from, to], newest first.
	ListRange(ctx context.Context, from, to time.Time) ([]domain.AuditLogEntry, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report domain.Report) error
	Update(ctx context.Context, report domain.Report) error
	Delete(ctx context.Context, reportID string) error
	GetByID(ctx context.Context, reportID string) (domain.Report, error)
	List(ctx context.Context) ([]domain.Report, error)
}
