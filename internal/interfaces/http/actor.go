package http

import (
	"context"
	"errors"

	"disaster-response/internal/application"
	"disaster-response/internal/domain"
)

// loadActor resolves the calling user. Anonymous, unknown and blacklisted
// callers are denied.
func loadActor(ctx context.Context, users *application.UserService, userID string) (domain.UserWithPermissions, error) {
	if userID == "" {
		return domain.UserWithPermissions{}, domain.ErrUnauthenticated
	}
	actor, err := users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UserWithPermissions{}, domain.ErrPermissionDeny
	}
	if err != nil {
		return domain.UserWithPermissions{}, err
	}
	if actor.IsBlacklisted {
		return domain.UserWithPermissions{}, domain.ErrPermissionDeny
	}
	return actor, nil
}
