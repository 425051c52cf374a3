package application

import (
	"context"

	"disaster-response/internal/authz"
	"disaster-response/internal/domain"
)

type MatchMode string

const (
	MatchAll MatchMode = "all"
	MatchAny MatchMode = "any"
)

type userLoader interface {
	Get(ctx context.Context, userID string) (domain.UserWithPermissions, error)
}

type AuthorizationService struct {
	users userLoader
}

func NewAuthorizationService(users *UserService) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// Check loads the user and evaluates permissions. Unknown and blacklisted
// users are denied without error.
func (s *AuthorizationService) Check(ctx context.Context, userID string, mode MatchMode, permissions ...domain.Permission) (bool, error) {
	if userID == "" {
		return false, domain.ErrInvalidInput
	}
	if mode != MatchAll && mode != MatchAny {
		return false, domain.ErrInvalidInput
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return Allowed(&user, mode, permissions...), nil
}

// Allowed evaluates an already loaded user.
func Allowed(user *domain.UserWithPermissions, mode MatchMode, permissions ...domain.Permission) bool {
	if user == nil || user.IsBlacklisted {
		return false
	}
	if mode == MatchAny {
		return authz.HasAnyPermission(user, permissions...)
	}
	return authz.HasAllPermissions(user, permissions...)
}
