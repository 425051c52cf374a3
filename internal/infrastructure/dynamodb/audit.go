package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"disaster-response/internal/domain"
)

// Audit entries are partitioned by UTC day. Sort keys use a fixed-width
// timestamp so lexical order matches chronological order.
const (
	auditDayLayout  = "2006-01-02"
	auditSortLayout = "2006-01-02T15:04:05.000000000Z"
	maxAuditDays    = 366
)

func auditPK(t time.Time) string { return "AUDIT#" + t.UTC().Format(auditDayLayout) }

func auditSK(e domain.AuditLogEntry) string {
	return e.CreatedAt.UTC().Format(auditSortLayout) + "#" + e.ID
}

type auditItem struct {
	PK         string            `dynamodbav:"PK"`
	SK         string            `dynamodbav:"SK"`
	EntityType string            `dynamodbav:"EntityType"`
	ID         string            `dynamodbav:"ID"`
	ActorID    string            `dynamodbav:"ActorID"`
	ActorName  string            `dynamodbav:"ActorName"`
	Action     string            `dynamodbav:"Action"`
	TargetType string            `dynamodbav:"TargetType"`
	TargetID   string            `dynamodbav:"TargetID"`
	Details    map[string]string `dynamodbav:"Details,omitempty"`
	CreatedAt  string            `dynamodbav:"CreatedAt"`
}

func (it auditItem) toDomain() domain.AuditLogEntry {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	return domain.AuditLogEntry{
		ID:         it.ID,
		ActorID:    it.ActorID,
		ActorName:  it.ActorName,
		Action:     it.Action,
		TargetType: it.TargetType,
		TargetID:   it.TargetID,
		Details:    it.Details,
		CreatedAt:  createdAt,
	}
}

type AuditLogRepository struct{ client *Client }

func NewAuditLogRepository(client *Client) *AuditLogRepository {
	return &AuditLogRepository{client: client}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry domain.AuditLogEntry) error {
	av, err := attributevalue.MarshalMap(auditItem{
		PK:         auditPK(entry.CreatedAt),
		SK:         auditSK(entry),
		EntityType: "AUDIT",
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	return r.client.put(ctx, "DynamoDB.PutAuditLog", av, "attribute_not_exists(PK) AND attribute_not_exists(SK)")
}

// ListRange walks the day partitions from to back to from.
func (r *AuditLogRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.AuditLogEntry, error) {
	from, to = from.UTC(), to.UTC()
	if to.Before(from) {
		return nil, fmt.Errorf("audit range ends before it starts: %w", domain.ErrInvalidInput)
	}
	firstDay := from.Truncate(24 * time.Hour)
	if days := int(to.Sub(firstDay)/(24*time.Hour)) + 1; days > maxAuditDays {
		return nil, fmt.Errorf("audit range spans %d days, max %d: %w", days, maxAuditDays, domain.ErrInvalidInput)
	}

	lower := from.Format(auditSortLayout)
	upper := to.Format(auditSortLayout) + "#~"
	var entries []domain.AuditLogEntry
	for day := to.Truncate(24 * time.Hour); !day.Before(firstDay); day = day.Add(-24 * time.Hour) {
		items, err := r.client.queryAll(ctx, "DynamoDB.QueryAuditLogs", &awsv2dynamodb.QueryInput{
			KeyConditionExpression: aws.String("PK = :pk AND SK BETWEEN :from AND :to"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":pk":   &awsv2types.AttributeValueMemberS{Value: auditPK(day)},
				":from": &awsv2types.AttributeValueMemberS{Value: lower},
				":to":   &awsv2types.AttributeValueMemberS{Value: upper},
			},
			ScanIndexForward: aws.Bool(false),
		})
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			var raw auditItem
			if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
				return nil, err
			}
			entries = append(entries, raw.toDomain())
		}
	}
	return entries, nil
}
