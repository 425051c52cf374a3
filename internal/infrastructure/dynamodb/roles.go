package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"disaster-response/internal/domain"
)

const rolePK = "ROLE"

func roleSK(roleID string) string { return "ROLE#" + roleID }

type roleItem struct {
	PK          string   `dynamodbav:"PK"`
	SK          string   `dynamodbav:"SK"`
	EntityType  string   `dynamodbav:"EntityType"`
	ID          string   `dynamodbav:"ID"`
	Name        string   `dynamodbav:"Name"`
	DisplayName string   `dynamodbav:"DisplayName"`
	Description string   `dynamodbav:"Description"`
	Permissions []string `dynamodbav:"Permissions"`
	IsActive    bool     `dynamodbav:"IsActive"`
	CreatedAt   string   `dynamodbav:"CreatedAt"`
	UpdatedAt   string   `dynamodbav:"UpdatedAt"`
}

func toRoleItem(role domain.Role) roleItem {
	perms := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		perms[i] = string(p)
	}
	return roleItem{
		PK:          rolePK,
		SK:          roleSK(role.ID),
		EntityType:  "ROLE",
		ID:          role.ID,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
		Permissions: perms,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   role.UpdatedAt.Format(time.RFC3339),
	}
}

func (it roleItem) toDomain() domain.Role {
	perms := make([]domain.Permission, len(it.Permissions))
	for i, p := range it.Permissions {
		perms[i] = domain.Permission(p)
	}
	createdAt, _ := time.Parse(time.RFC3339, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, it.UpdatedAt)
	return domain.Role{
		ID:          it.ID,
		Name:        it.Name,
		DisplayName: it.DisplayName,
		Description: it.Description,
		Permissions: perms,
		IsActive:    it.IsActive,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

type RoleRepository struct{ client *Client }

func NewRoleRepository(client *Client) *RoleRepository {
	return &RoleRepository{client: client}
}

func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	av, err := attributevalue.MarshalMap(toRoleItem(role))
	if err != nil {
		return err
	}
	err = r.client.put(ctx, "DynamoDB.PutRole", av, "attribute_not_exists(PK) AND attribute_not_exists(SK)")
	if isConditionalCheckFailure(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	av, err := attributevalue.MarshalMap(toRoleItem(role))
	if err != nil {
		return err
	}
	err = r.client.put(ctx, "DynamoDB.UpdateRole", av, "attribute_exists(PK)")
	if isConditionalCheckFailure(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *RoleRepository) Delete(ctx context.Context, roleID string) error {
	err := r.client.delete(ctx, "DynamoDB.DeleteRole", rolePK, roleSK(roleID))
	if isConditionalCheckFailure(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *RoleRepository) GetByID(ctx context.Context, roleID string) (domain.Role, error) {
	item, err := r.client.get(ctx, "DynamoDB.GetRole", rolePK, roleSK(roleID))
	if err != nil {
		return domain.Role{}, err
	}
	if item == nil {
		return domain.Role{}, domain.ErrNotFound
	}
	var raw roleItem
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return domain.Role{}, err
	}
	return raw.toDomain(), nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	items, err := r.client.queryAll(ctx, "DynamoDB.QueryRoles", prefixQuery(rolePK, "ROLE#"))
	if err != nil {
		return nil, err
	}
	roles := make([]domain.Role, 0, len(items))
	for _, item := range items {
		var raw roleItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		roles = append(roles, raw.toDomain())
	}
	return roles, nil
}
