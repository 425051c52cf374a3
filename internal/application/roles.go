package application

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/authz"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

const roleListCacheKey = "roles:all"

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

type RoleService struct {
	repo     ports.RoleRepository
	cache    ports.Cache
	cacheTTL time.Duration
	audit    *AuditService
	catalog  *domain.Catalog
	logger   ports.Logger
}

func NewRoleService(repo ports.RoleRepository, cache ports.Cache, cacheTTL time.Duration, audit *AuditService, logger ports.Logger) *RoleService {
	return &RoleService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		audit:    audit,
		catalog:  domain.DefaultCatalog(),
		logger:   logger,
	}
}

// List returns the system roles followed by custom roles.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	var cached []domain.Role
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, roleListCacheKey, &cached)
		if err != nil {
			s.logger.Warn(ctx, "role cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}
	custom, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(custom, func(a, b domain.Role) int { return strings.Compare(a.Name, b.Name) })
	roles := append(s.catalog.SystemRoles(), custom...)
	if s.cache != nil {
		if err := s.cache.Set(ctx, roleListCacheKey, roles, s.cacheTTL); err != nil {
			s.logger.Warn(ctx, "role cache write failed", "error", err)
		}
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, roleID string) (domain.Role, error) {
	if roleID == "" {
		return domain.Role{}, domain.ErrInvalidInput
	}
	if role, ok := s.catalog.SystemRole(roleID); ok {
		return role, nil
	}
	return s.repo.GetByID(ctx, roleID)
}

// Create stores a custom role. A non super admin actor may only bundle
// permissions they hold.
func (s *RoleService) Create(ctx context.Context, actor *domain.UserWithPermissions, role domain.Role) (domain.Role, error) {
	if actor == nil {
		return domain.Role{}, domain.ErrUnauthenticated
	}
	if err := s.validate(role); err != nil {
		return domain.Role{}, err
	}
	if err := s.ensureUniqueName(ctx, "", role.Name); err != nil {
		return domain.Role{}, err
	}
	if result := authz.ValidateRoleGrant(nil, role.Permissions, actor); !result.Allowed {
		return domain.Role{}, &domain.PermissionChangeError{Result: result}
	}
	now := time.Now().UTC()
	role.ID = uuid.NewString()
	role.Permissions = dedupePermissions(role.Permissions)
	role.IsSystemRole = false
	role.IsActive = true
	role.CreatedAt = now
	role.UpdatedAt = now
	if err := s.repo.Create(ctx, role); err != nil {
		return domain.Role{}, err
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor.ID, domain.AuditRoleCreated, "role", role.ID, map[string]string{"name": role.Name})
	return role, nil
}

// Update replaces a custom role's details. Permissions added to the bundle
// follow the same rule as Create.
func (s *RoleService) Update(ctx context.Context, actor *domain.UserWithPermissions, role domain.Role) (domain.Role, error) {
	if actor == nil {
		return domain.Role{}, domain.ErrUnauthenticated
	}
	if s.catalog.IsSystemRole(role.ID) {
		return domain.Role{}, domain.ErrSystemRole
	}
	if err := s.validate(role); err != nil {
		return domain.Role{}, err
	}
	existing, err := s.repo.GetByID(ctx, role.ID)
	if err != nil {
		return domain.Role{}, err
	}
	if existing.Name != role.Name {
		if err := s.ensureUniqueName(ctx, role.ID, role.Name); err != nil {
			return domain.Role{}, err
		}
	}
	if result := authz.ValidateRoleGrant(existing.Permissions, role.Permissions, actor); !result.Allowed {
		return domain.Role{}, &domain.PermissionChangeError{Result: result}
	}
	existing.Name = role.Name
	existing.DisplayName = role.DisplayName
	existing.Description = role.Description
	existing.Permissions = dedupePermissions(role.Permissions)
	existing.IsActive = role.IsActive
	existing.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, existing); err != nil {
		return domain.Role{}, err
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor.ID, domain.AuditRoleUpdated, "role", existing.ID, map[string]string{
		"name":        existing.Name,
		"permissions": joinPermissions(existing.Permissions),
		"active":      fmt.Sprint(existing.IsActive),
	})
	return existing, nil
}

// SetActive enables or disables a custom role. Users keep the assignment but
// an inactive role grants nothing.
func (s *RoleService) SetActive(ctx context.Context, actorID, roleID string, active bool) (domain.Role, error) {
	if roleID == "" {
		return domain.Role{}, domain.ErrInvalidInput
	}
	if s.catalog.IsSystemRole(roleID) {
		return domain.Role{}, domain.ErrSystemRole
	}
	role, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, err
	}
	if role.IsActive == active {
		return role, nil
	}
	role.IsActive = active
	role.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, role); err != nil {
		return domain.Role{}, err
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actorID, domain.AuditRoleUpdated, "role", role.ID, map[string]string{
		"name":   role.Name,
		"active": fmt.Sprint(active),
	})
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, actorID, roleID string) error {
	if roleID == "" {
		return domain.ErrInvalidInput
	}
	if s.catalog.IsSystemRole(roleID) {
		return domain.ErrSystemRole
	}
	if err := s.repo.Delete(ctx, roleID); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actorID, domain.AuditRoleDeleted, "role", roleID, nil)
	return nil
}

func (s *RoleService) validate(role domain.Role) error {
	if !roleNamePattern.MatchString(role.Name) {
		return fmt.Errorf("role name %q: %w", role.Name, domain.ErrInvalidInput)
	}
	if s.catalog.IsSystemRole(role.Name) {
		return fmt.Errorf("role name %q is reserved: %w", role.Name, domain.ErrConflict)
	}
	for _, p := range role.Permissions {
		if !p.Valid() {
			return fmt.Errorf("unknown permission %q: %w", p, domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *RoleService) ensureUniqueName(ctx context.Context, selfID, name string) error {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.Name == name && r.ID != selfID {
			return fmt.Errorf("role %q: %w", name, domain.ErrConflict)
		}
	}
	return nil
}

func (s *RoleService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, roleListCacheKey); err != nil {
		s.logger.Warn(ctx, "role cache invalidation failed", "error", err)
	}
}

func (s *RoleService) lookup(ctx context.Context) (map[string]domain.Role, error) {
	roles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}
	return byID, nil
}
