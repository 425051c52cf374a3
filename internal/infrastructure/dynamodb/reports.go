package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"disaster-response/internal/domain"
)

const reportPK = "REPORT"

func reportSK(reportID string) string { return "REPORT#" + reportID }

type reportItem struct {
	PK           string  `dynamodbav:"PK"`
	SK           string  `dynamodbav:"SK"`
	EntityType   string  `dynamodbav:"EntityType"`
	ID           string  `dynamodbav:"ID"`
	ReporterID   string  `dynamodbav:"ReporterID"`
	Title        string  `dynamodbav:"Title"`
	Description  string  `dynamodbav:"Description"`
	DisasterType string  `dynamodbav:"DisasterType"`
	Location     string  `dynamodbav:"Location"`
	Latitude     float64 `dynamodbav:"Latitude"`
	Longitude    float64 `dynamodbav:"Longitude"`
	Severity     string  `dynamodbav:"Severity"`
	Status       string  `dynamodbav:"Status"`
	ReviewedBy   string  `dynamodbav:"ReviewedBy,omitempty"`
	ReviewNote   string  `dynamodbav:"ReviewNote,omitempty"`
	CreatedAt    string  `dynamodbav:"CreatedAt"`
	UpdatedAt    string  `dynamodbav:"UpdatedAt"`
}

func toReportItem(r domain.Report) reportItem {
	return reportItem{
		PK:           reportPK,
		SK:           reportSK(r.ID),
		EntityType:   "REPORT",
		ID:           r.ID,
		ReporterID:   r.ReporterID,
		Title:        r.Title,
		Description:  r.Description,
		DisasterType: r.DisasterType,
		Location:     r.Location,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Severity:     string(r.Severity),
		Status:       string(r.Status),
		ReviewedBy:   r.ReviewedBy,
		ReviewNote:   r.ReviewNote,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (it reportItem) toDomain() domain.Report {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return domain.Report{
		ID:           it.ID,
		ReporterID:   it.ReporterID,
		Title:        it.Title,
		Description:  it.Description,
		DisasterType: it.DisasterType,
		Location:     it.Location,
		Latitude:     it.Latitude,
		Longitude:    it.Longitude,
		Severity:     domain.Severity(it.Severity),
		Status:       domain.ReportStatus(it.Status),
		ReviewedBy:   it.ReviewedBy,
		ReviewNote:   it.ReviewNote,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

type ReportRepository struct{ client *Client }

func NewReportRepository(client *Client) *ReportRepository {
	return &ReportRepository{client: client}
}

func (r *ReportRepository) Create(ctx context.Context, report domain.Report) error {
	av, err := attributevalue.MarshalMap(toReportItem(report))
	if err != nil {
		return err
	}
	err = r.client.put(ctx, "DynamoDB.PutReport", av, "attribute_not_exists(PK) AND attribute_not_exists(SK)")
	if isConditionalCheckFailure(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *ReportRepository) Update(ctx context.Context, report domain.Report) error {
	av, err := attributevalue.MarshalMap(toReportItem(report))
	if err != nil {
		return err
	}
	err = r.client.put(ctx, "DynamoDB.UpdateReport", av, "attribute_exists(PK)")
	if isConditionalCheckFailure(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *ReportRepository) Delete(ctx context.Context, reportID string) error {
	err := r.client.delete(ctx, "DynamoDB.DeleteReport", reportPK, reportSK(reportID))
	if isConditionalCheckFailure(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (domain.Report, error) {
	item, err := r.client.get(ctx, "DynamoDB.GetReport", reportPK, reportSK(reportID))
	if err != nil {
		return domain.Report{}, err
	}
	if item == nil {
		return domain.Report{}, domain.ErrNotFound
	}
	var raw reportItem
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return domain.Report{}, err
	}
	return raw.toDomain(), nil
}

func (r *ReportRepository) List(ctx context.Context) ([]domain.Report, error) {
	items, err := r.client.queryAll(ctx, "DynamoDB.QueryReports", prefixQuery(reportPK, "REPORT#"))
	if err != nil {
		return nil, err
	}
	reports := make([]domain.Report, 0, len(items))
	for _, item := range items {
		var raw reportItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		reports = append(reports, raw.toDomain())
	}
	return reports, nil
}
