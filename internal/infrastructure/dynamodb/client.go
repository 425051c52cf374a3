package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	PutItem(ctx context.Context, params *awsv2dynamodb.PutItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *awsv2dynamodb.GetItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *awsv2dynamodb.DeleteItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *awsv2dynamodb.QueryInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.QueryOutput, error)
}

type Client struct {
	db        API
	tableName string
}

func NewClient(ctx context.Context, region, tableName string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	client := awsv2dynamodb.NewFromConfig(cfg)
	return &Client{db: client, tableName: tableName}, nil
}

// NewClientWithAPI wraps an existing DynamoDB API implementation.
func NewClientWithAPI(api API, tableName string) *Client {
	return &Client{db: api, tableName: tableName}
}

func isConditionalCheckFailure(err error) bool {
	var condErr *awsv2types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

func key(pk, sk string) map[string]awsv2types.AttributeValue {
	return map[string]awsv2types.AttributeValue{
		"PK": &awsv2types.AttributeValueMemberS{Value: pk},
		"SK": &awsv2types.AttributeValueMemberS{Value: sk},
	}
}

func (c *Client) put(ctx context.Context, segment string, item map[string]awsv2types.AttributeValue, condition string) error {
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		input := &awsv2dynamodb.PutItemInput{
			TableName: aws.String(c.tableName),
			Item:      item,
		}
		if condition != "" {
			input.ConditionExpression = aws.String(condition)
		}
		_, err := c.db.PutItem(ctx, input)
		return err
	})
}

func (c *Client) get(ctx context.Context, segment, pk, sk string) (map[string]awsv2types.AttributeValue, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		var e error
		out, e = c.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(c.tableName),
			Key:       key(pk, sk),
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *Client) delete(ctx context.Context, segment, pk, sk string) error {
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		_, err := c.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName:           aws.String(c.tableName),
			Key:                 key(pk, sk),
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		return err
	})
}

// queryAll follows LastEvaluatedKey until the partition range is exhausted.
func (c *Client) queryAll(ctx context.Context, segment string, input *awsv2dynamodb.QueryInput) ([]map[string]awsv2types.AttributeValue, error) {
	input.TableName = aws.String(c.tableName)
	var items []map[string]awsv2types.AttributeValue
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		for {
			out, err := c.db.Query(ctx, input)
			if err != nil {
				return err
			}
			items = append(items, out.Items...)
			if len(out.LastEvaluatedKey) == 0 {
				return nil
			}
			input.ExclusiveStartKey = out.LastEvaluatedKey
		}
	})
	return items, err
}

func prefixQuery(pk, skPrefix string) *awsv2dynamodb.QueryInput {
	return &awsv2dynamodb.QueryInput{
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
			":pk": &awsv2types.AttributeValueMemberS{Value: pk},
			":sk": &awsv2types.AttributeValueMemberS{Value: skPrefix},
		},
	}
}
