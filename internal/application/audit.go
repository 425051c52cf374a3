package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
	defaultAuditWindow   = 30 * 24 * time.Hour
)

type AuditService struct {
	repo   ports.AuditLogRepository
	logger ports.Logger
}

func NewAuditService(repo ports.AuditLogRepository, logger ports.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Record(ctx context.Context, entry domain.AuditLogEntry) error {
	if entry.Action == "" || entry.TargetType == "" {
		return domain.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return s.repo.Append(ctx, entry)
}

// record is used by the admin services; a failed audit write is logged and
// never fails the mutation that produced it.
func (s *AuditService) record(ctx context.Context, actorID, action, targetType, targetID string, details map[string]string) {
	if s == nil {
		return
	}
	err := s.Record(ctx, domain.AuditLogEntry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to record audit entry", "action", action, "target_id", targetID, "error", err)
	}
}

func (s *AuditService) List(ctx context.Context, filters domain.AuditFilters) (domain.AuditPage, error) {
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultAuditPageSize
	}
	if pageSize > maxAuditPageSize {
		pageSize = maxAuditPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	to := filters.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	from := filters.From
	if from.IsZero() {
		from = to.Add(-defaultAuditWindow)
	}
	if from.After(to) {
		return domain.AuditPage{}, domain.ErrInvalidInput
	}

	entries, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return domain.AuditPage{}, err
	}
	matched := make([]domain.AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		if matchesAudit(e, filters) {
			matched = append(matched, e)
		}
	}

	offset := pageOffset(len(matched), page, pageSize)
	end := min(offset+pageSize+1, len(matched))
	window := matched[offset:end]
	hasNext := len(window) > pageSize
	if hasNext {
		window = window[:pageSize]
	}
	paging := domain.PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return domain.AuditPage{Entries: window, Paging: paging}, nil
}

func matchesAudit(e domain.AuditLogEntry, f domain.AuditFilters) bool {
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.TargetType != "" && e.TargetType != f.TargetType {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{e.ActorID, e.ActorName, e.Action, e.TargetType, e.TargetID}, " "))
		for _, v := range e.Details {
			haystack += " " + strings.ToLower(v)
		}
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// Stats summarizes the entries recorded during the trailing window.
func (s *AuditService) Stats(ctx context.Context, window time.Duration) (domain.AuditStats, error) {
	if window <= 0 {
		return domain.AuditStats{}, domain.ErrInvalidInput
	}
	to := time.Now().UTC()
	entries, err := s.repo.ListRange(ctx, to.Add(-window), to)
	if err != nil {
		return domain.AuditStats{}, err
	}
	stats := domain.AuditStats{Window: window.String(), Total: len(entries), ByAction: map[string]int{}}
	actors := map[string]struct{}{}
	for _, e := range entries {
		stats.ByAction[e.Action]++
		actors[e.ActorID] = struct{}{}
		if stats.LastEntryAt == nil || e.CreatedAt.After(*stats.LastEntryAt) {
			at := e.CreatedAt
			stats.LastEntryAt = &at
		}
	}
	stats.DistinctActors = len(actors)
	return stats, nil
}
