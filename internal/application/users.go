package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/authz"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type UserService struct {
	repo   ports.UserRepository
	roles  *RoleService
	audit  *AuditService
	logger ports.Logger
}

func NewUserService(repo ports.UserRepository, roles *RoleService, audit *AuditService, logger ports.Logger) *UserService {
	return &UserService{repo: repo, roles: roles, audit: audit, logger: logger}
}

// Get returns the user with roles expanded and effective permissions
// resolved.
func (s *UserService) Get(ctx context.Context, userID string) (domain.UserWithPermissions, error) {
	if userID == "" {
		return domain.UserWithPermissions{}, domain.ErrInvalidInput
	}
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	roles, err := s.roles.lookup(ctx)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	return s.resolve(ctx, record, roles), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.UserWithPermissions, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.lookup(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(records, func(a, b domain.UserRecord) int { return strings.Compare(a.Email, b.Email) })
	users := make([]domain.UserWithPermissions, 0, len(records))
	for _, r := range records {
		users = append(users, s.resolve(ctx, r, roles))
	}
	return users, nil
}

// resolve expands role ids into roles. Unknown and inactive roles contribute
// nothing.
func (s *UserService) resolve(ctx context.Context, record domain.UserRecord, roles map[string]domain.Role) domain.UserWithPermissions {
	user := domain.UserWithPermissions{
		ID:                record.ID,
		Name:              record.Name,
		Email:             record.Email,
		Roles:             []domain.Role{},
		DirectPermissions: record.DirectPermissions,
		IsBlacklisted:     record.IsBlacklisted,
		IsSuperAdmin:      record.IsSuperAdmin,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
	if user.DirectPermissions == nil {
		user.DirectPermissions = []domain.Permission{}
	}
	for _, id := range record.RoleIDs {
		role, ok := roles[id]
		if !ok {
			s.logger.Debug(ctx, "user references unknown role", "user_id", record.ID, "role_id", id)
			continue
		}
		if !role.IsActive {
			continue
		}
		if role.Name == domain.RoleSuperAdmin {
			user.IsSuperAdmin = true
		}
		user.Roles = append(user.Roles, role)
	}
	authz.Resolve(&user)
	return user
}

func (s *UserService) Create(ctx context.Context, actorID string, record domain.UserRecord) (domain.UserWithPermissions, error) {
	record.Name = strings.TrimSpace(record.Name)
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	if record.Name == "" {
		return domain.UserWithPermissions{}, fmt.Errorf("name required: %w", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(record.Email); err != nil {
		return domain.UserWithPermissions{}, fmt.Errorf("email %q: %w", record.Email, domain.ErrInvalidInput)
	}
	roles, err := s.roles.lookup(ctx)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	if len(record.RoleIDs) == 0 {
		record.RoleIDs = []string{domain.RoleUser}
	}
	for _, id := range record.RoleIDs {
		if _, ok := roles[id]; !ok {
			return domain.UserWithPermissions{}, fmt.Errorf("role %q: %w", id, domain.ErrNotFound)
		}
	}
	for _, p := range record.DirectPermissions {
		if !p.Valid() {
			return domain.UserWithPermissions{}, fmt.Errorf("unknown permission %q: %w", p, domain.ErrInvalidInput)
		}
	}
	if err := s.authorizeGrant(ctx, actorID, record); err != nil {
		return domain.UserWithPermissions{}, err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := s.repo.Create(ctx, record); err != nil {
		return domain.UserWithPermissions{}, err
	}
	s.audit.record(ctx, actorID, domain.AuditUserCreated, "user", record.ID, map[string]string{"email": record.Email})
	return s.resolve(ctx, record, roles), nil
}

// authorizeGrant applies the assignment rules to the roles and direct
// permissions a new account starts with.
func (s *UserService) authorizeGrant(ctx context.Context, actorID string, record domain.UserRecord) error {
	actor, err := s.Get(ctx, actorID)
	if err != nil {
		if isNotFound(err) || errors.Is(err, domain.ErrInvalidInput) {
			return domain.ErrPermissionDeny
		}
		return err
	}
	if actor.IsBlacklisted {
		return domain.ErrPermissionDeny
	}
	if (record.IsSuperAdmin || slices.Contains(record.RoleIDs, domain.RoleSuperAdmin)) && !actor.IsSuperAdmin {
		return fmt.Errorf("only super admins may create super admins: %w", domain.ErrPermissionDeny)
	}
	if len(record.DirectPermissions) == 0 {
		return nil
	}
	result := authz.ValidatePermissionChanges(&domain.UserWithPermissions{DirectPermissions: []domain.Permission{}}, record.DirectPermissions, &actor)
	if !result.Allowed {
		return &domain.PermissionChangeError{Result: result}
	}
	return nil
}

// AssignRole adds roleID to the user. Only super admins may hand out the
// super admin role.
func (s *UserService) AssignRole(ctx context.Context, actorID, userID, roleID string) (domain.UserWithPermissions, error) {
	if userID == "" || roleID == "" {
		return domain.UserWithPermissions{}, domain.ErrInvalidInput
	}
	roles, err := s.roles.lookup(ctx)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	role, ok := roles[roleID]
	if !ok {
		return domain.UserWithPermissions{}, fmt.Errorf("role %q: %w", roleID, domain.ErrNotFound)
	}
	if !role.IsActive {
		return domain.UserWithPermissions{}, fmt.Errorf("role %q is inactive: %w", roleID, domain.ErrInvalidInput)
	}
	if role.Name == domain.RoleSuperAdmin {
		actor, err := s.Get(ctx, actorID)
		if err != nil || !actor.IsSuperAdmin {
			return domain.UserWithPermissions{}, domain.ErrPermissionDeny
		}
	}
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	if slices.Contains(record.RoleIDs, roleID) {
		return s.resolve(ctx, record, roles), nil
	}
	record.RoleIDs = append(record.RoleIDs, roleID)
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, record); err != nil {
		return domain.UserWithPermissions{}, err
	}
	s.audit.record(ctx, actorID, domain.AuditUserRoleAssigned, "user", userID, map[string]string{"role_id": roleID})
	return s.resolve(ctx, record, roles), nil
}

func (s *UserService) RemoveRole(ctx context.Context, actorID, userID, roleID string) (domain.UserWithPermissions, error) {
	if userID == "" || roleID == "" {
		return domain.UserWithPermissions{}, domain.ErrInvalidInput
	}
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	idx := slices.Index(record.RoleIDs, roleID)
	if idx < 0 {
		return domain.UserWithPermissions{}, fmt.Errorf("user %q has no role %q: %w", userID, roleID, domain.ErrNotFound)
	}
	record.RoleIDs = slices.Delete(record.RoleIDs, idx, idx+1)
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, record); err != nil {
		return domain.UserWithPermissions{}, err
	}
	roles, err := s.roles.lookup(ctx)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	s.audit.record(ctx, actorID, domain.AuditUserRoleRemoved, "user", userID, map[string]string{"role_id": roleID})
	return s.resolve(ctx, record, roles), nil
}

// ValidatePermissionChanges previews a direct permission update without
// applying it.
func (s *UserService) ValidatePermissionChanges(ctx context.Context, actorID, userID string, permissions []domain.Permission) (domain.PermissionValidationResult, error) {
	target, err := s.Get(ctx, userID)
	if err != nil {
		return domain.PermissionValidationResult{}, err
	}
	actor, err := s.Get(ctx, actorID)
	if err != nil {
		if isNotFound(err) {
			return authz.ValidatePermissionChanges(&target, permissions, nil), nil
		}
		return domain.PermissionValidationResult{}, err
	}
	return authz.ValidatePermissionChanges(&target, permissions, &actor), nil
}

// UpdateDirectPermissions replaces the user's direct permissions. A change
// with blockers fails with *domain.PermissionChangeError.
func (s *UserService) UpdateDirectPermissions(ctx context.Context, actorID, userID string, permissions []domain.Permission) (domain.UserWithPermissions, domain.PermissionValidationResult, error) {
	result, err := s.ValidatePermissionChanges(ctx, actorID, userID, permissions)
	if err != nil {
		return domain.UserWithPermissions{}, result, err
	}
	if !result.Allowed {
		return domain.UserWithPermissions{}, result, &domain.PermissionChangeError{Result: result}
	}
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.UserWithPermissions{}, result, err
	}
	record.DirectPermissions = dedupePermissions(permissions)
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, record); err != nil {
		return domain.UserWithPermissions{}, result, err
	}
	s.audit.record(ctx, actorID, domain.AuditUserPermissionsSet, "user", userID, map[string]string{
		"permissions": joinPermissions(record.DirectPermissions),
	})
	roles, err := s.roles.lookup(ctx)
	if err != nil {
		return domain.UserWithPermissions{}, result, err
	}
	return s.resolve(ctx, record, roles), result, nil
}

// SetBlacklisted blocks or reinstates a user. Users cannot blacklist
// themselves and only super admins may blacklist another super admin.
func (s *UserService) SetBlacklisted(ctx context.Context, actorID, userID string, blacklisted bool) (domain.UserWithPermissions, error) {
	if userID == "" {
		return domain.UserWithPermissions{}, domain.ErrInvalidInput
	}
	if blacklisted && actorID == userID {
		return domain.UserWithPermissions{}, fmt.Errorf("cannot blacklist yourself: %w", domain.ErrInvalidInput)
	}
	target, err := s.Get(ctx, userID)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	if target.IsSuperAdmin {
		actor, err := s.Get(ctx, actorID)
		if err != nil || !actor.IsSuperAdmin {
			return domain.UserWithPermissions{}, domain.ErrPermissionDeny
		}
	}
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	if record.IsBlacklisted == blacklisted {
		target.IsBlacklisted = blacklisted
		return target, nil
	}
	record.IsBlacklisted = blacklisted
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, record); err != nil {
		return domain.UserWithPermissions{}, err
	}
	action := domain.AuditUserReinstated
	if blacklisted {
		action = domain.AuditUserBlacklisted
	}
	s.audit.record(ctx, actorID, action, "user", userID, nil)
	target.IsBlacklisted = blacklisted
	target.UpdatedAt = record.UpdatedAt
	return target, nil
}
