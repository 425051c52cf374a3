package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"disaster-response/internal/domain"
)

func TestPageOffset(t *testing.T) {
	cases := []struct {
		total, page, size, want int
	}{
		{total: 25, page: 1, size: 10, want: 0},
		{total: 25, page: 3, size: 10, want: 20},
		{total: 25, page: 4, size: 10, want: 25},
		{total: 0, page: 1, size: 20, want: 0},
		{total: 3, page: math.MaxInt, size: 100, want: 3},
		{total: 3, page: math.MaxInt/100 + 2, size: 100, want: 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, pageOffset(c.total, c.page, c.size), "%+v", c)
	}
}

func TestDedupePermissionsKeepsFirstOccurrence(t *testing.T) {
	got := dedupePermissions([]domain.Permission{domain.PermViewReport, domain.PermCreateReport, domain.PermViewReport})

	assert.Equal(t, []domain.Permission{domain.PermViewReport, domain.PermCreateReport}, got)
	assert.Equal(t, "view_report,create_report", joinPermissions(got))
}
