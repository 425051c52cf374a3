package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"disaster-response/internal/domain"
)

const userPK = "USER"

func userSK(userID string) string { return "USER#" + userID }

type userItem struct {
	PK                string   `dynamodbav:"PK"`
	SK                string   `dynamodbav:"SK"`
	EntityType        string   `dynamodbav:"EntityType"`
	ID                string   `dynamodbav:"ID"`
	Name              string   `dynamodbav:"Name"`
	Email             string   `dynamodbav:"Email"`
	Roles             []string `dynamodbav:"Roles"`
	DirectPermissions []string `dynamodbav:"DirectPermissions"`
	IsBlacklisted     bool     `dynamodbav:"IsBlacklisted"`
	IsSuperAdmin      bool     `dynamodbav:"IsSuperAdmin"`
	CreatedAt         string   `dynamodbav:"CreatedAt"`
	UpdatedAt         string   `dynamodbav:"UpdatedAt"`
}

func toUserItem(u domain.UserRecord) userItem {
	perms := make([]string, len(u.DirectPermissions))
	for i, p := range u.DirectPermissions {
		perms[i] = string(p)
	}
	return userItem{
		PK:                userPK,
		SK:                userSK(u.ID),
		EntityType:        "USER",
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Roles:             u.RoleIDs,
		DirectPermissions: perms,
		IsBlacklisted:     u.IsBlacklisted,
		IsSuperAdmin:      u.IsSuperAdmin,
		CreatedAt:         u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         u.UpdatedAt.Format(time.RFC3339),
	}
}

func (it userItem) toDomain() domain.UserRecord {
	perms := make([]domain.Permission, len(it.DirectPermissions))
	for i, p := range it.DirectPermissions {
		perms[i] = domain.Permission(p)
	}
	createdAt, _ := time.Parse(time.RFC3339, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, it.UpdatedAt)
	return domain.UserRecord{
		ID:                it.ID,
		Name:              it.Name,
		Email:             it.Email,
		RoleIDs:           it.Roles,
		DirectPermissions: perms,
		IsBlacklisted:     it.IsBlacklisted,
		IsSuperAdmin:      it.IsSuperAdmin,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}

type UserRepository struct{ client *Client }

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) Create(ctx context.Context, user domain.UserRecord) error {
	av, err := attributevalue.MarshalMap(toUserItem(user))
	if err != nil {
		return err
	}
	err = r.client.put(ctx, "DynamoDB.PutUser", av, "attribute_not_exists(PK) AND attribute_not_exists(SK)")
	if isConditionalCheckFailure(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *UserRepository) Save(ctx context.Context, user domain.UserRecord) error {
	av, err := attributevalue.MarshalMap(toUserItem(user))
	if err != nil {
		return err
	}
	err = r.client.put(ctx, "DynamoDB.SaveUser", av, "attribute_exists(PK)")
	if isConditionalCheckFailure(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (domain.UserRecord, error) {
	item, err := r.client.get(ctx, "DynamoDB.GetUser", userPK, userSK(userID))
	if err != nil {
		return domain.UserRecord{}, err
	}
	if item == nil {
		return domain.UserRecord{}, domain.ErrNotFound
	}
	var raw userItem
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return domain.UserRecord{}, err
	}
	return raw.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.UserRecord, error) {
	items, err := r.client.queryAll(ctx, "DynamoDB.QueryUsers", prefixQuery(userPK, "USER#"))
	if err != nil {
		return nil, err
	}
	users := make([]domain.UserRecord, 0, len(items))
	for _, item := range items {
		var raw userItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		users = append(users, raw.toDomain())
	}
	return users, nil
}
