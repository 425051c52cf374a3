package application

import (
	"errors"
	"slices"
	"strings"

	"disaster-response/internal/domain"
)

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }

func dedupePermissions(perms []domain.Permission) []domain.Permission {
	out := make([]domain.Permission, 0, len(perms))
	for _, p := range perms {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func joinPermissions(perms []domain.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// pageOffset returns the index of the first item on page, clamped to total.
// page and pageSize must be positive.
func pageOffset(total, page, pageSize int) int {
	if page-1 > total/pageSize {
		return total
	}
	return min((page-1)*pageSize, total)
}
