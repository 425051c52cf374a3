package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/authz"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

const (
	defaultReportPageSize = 20
	maxReportPageSize     = 100
)

type ReportService struct {
	repo   ports.ReportRepository
	audit  *AuditService
	logger ports.Logger
}

func NewReportService(repo ports.ReportRepository, audit *AuditService, logger ports.Logger) *ReportService {
	return &ReportService{repo: repo, audit: audit, logger: logger}
}

func (s *ReportService) Submit(ctx context.Context, reporterID string, report domain.Report) (domain.Report, error) {
	if reporterID == "" {
		return domain.Report{}, domain.ErrUnauthenticated
	}
	report.Title = strings.TrimSpace(report.Title)
	report.Description = strings.TrimSpace(report.Description)
	report.DisasterType = strings.ToLower(strings.TrimSpace(report.DisasterType))
	if report.Title == "" || report.Description == "" {
		return domain.Report{}, fmt.Errorf("title and description required: %w", domain.ErrInvalidInput)
	}
	if !slices.Contains(domain.DisasterTypes, report.DisasterType) {
		return domain.Report{}, fmt.Errorf("disaster type %q: %w", report.DisasterType, domain.ErrInvalidInput)
	}
	if report.Latitude < -90 || report.Latitude > 90 || report.Longitude < -180 || report.Longitude > 180 {
		return domain.Report{}, fmt.Errorf("coordinates out of range: %w", domain.ErrInvalidInput)
	}
	switch report.Severity {
	case "":
		report.Severity = domain.SeverityMedium
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical:
	default:
		return domain.Report{}, fmt.Errorf("severity %q: %w", report.Severity, domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	report.ID = uuid.NewString()
	report.ReporterID = reporterID
	report.Status = domain.ReportPending
	report.ReviewedBy = ""
	report.ReviewNote = ""
	report.CreatedAt = now
	report.UpdatedAt = now
	if err := s.repo.Create(ctx, report); err != nil {
		return domain.Report{}, err
	}
	s.logger.Info(ctx, "report submitted", "report_id", report.ID, "disaster_type", report.DisasterType, "severity", report.Severity)
	return report, nil
}

func (s *ReportService) Get(ctx context.Context, reportID string) (domain.Report, error) {
	if reportID == "" {
		return domain.Report{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, reportID)
}

// List returns reports newest first.
func (s *ReportService) List(ctx context.Context, filters domain.ReportFilters) (domain.ReportPage, error) {
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultReportPageSize
	}
	if pageSize > maxReportPageSize {
		pageSize = maxReportPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return domain.ReportPage{}, err
	}
	matched := make([]domain.Report, 0, len(all))
	for _, r := range all {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.ReporterID != "" && r.ReporterID != filters.ReporterID {
			continue
		}
		matched = append(matched, r)
	}
	slices.SortFunc(matched, func(a, b domain.Report) int { return b.CreatedAt.Compare(a.CreatedAt) })

	offset := pageOffset(len(matched), page, pageSize)
	end := min(offset+pageSize, len(matched))
	paging := domain.PagingInfo{Page: page, PageSize: pageSize, HasNext: end < len(matched)}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if paging.HasNext {
		paging.NextPage = page + 1
	}
	return domain.ReportPage{Reports: matched[offset:end], Paging: paging}, nil
}

// Review verifies or rejects a pending report.
func (s *ReportService) Review(ctx context.Context, reviewerID, reportID string, verified bool, note string) (domain.Report, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return domain.Report{}, err
	}
	if report.Status != domain.ReportPending {
		return domain.Report{}, fmt.Errorf("report already %s: %w", report.Status, domain.ErrConflict)
	}
	action := domain.AuditReportRejected
	report.Status = domain.ReportRejected
	if verified {
		action = domain.AuditReportVerified
		report.Status = domain.ReportVerified
	}
	report.ReviewedBy = reviewerID
	report.ReviewNote = strings.TrimSpace(note)
	report.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, report); err != nil {
		return domain.Report{}, err
	}
	s.audit.record(ctx, reviewerID, action, "report", report.ID, map[string]string{"title": report.Title})
	return report, nil
}

// Delete removes a report. Reporters may delete their own reports; anyone
// else needs delete_report.
func (s *ReportService) Delete(ctx context.Context, actor *domain.UserWithPermissions, reportID string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return err
	}
	if report.ReporterID != actor.ID && !authz.HasPermission(actor, domain.PermDeleteReport) {
		return domain.ErrPermissionDeny
	}
	if err := s.repo.Delete(ctx, reportID); err != nil {
		return err
	}
	s.audit.record(ctx, actor.ID, domain.AuditReportDeleted, "report", reportID, map[string]string{"title": report.Title})
	return nil
}
