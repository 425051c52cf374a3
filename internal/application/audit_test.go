package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"disaster-response/internal/domain"
)

func auditEntries(n int) []domain.AuditLogEntry {
	base := time.Now().UTC()
	out := make([]domain.AuditLogEntry, n)
	for i := range out {
		action := domain.AuditRoleCreated
		if i%2 == 1 {
			action = domain.AuditUserBlacklisted
		}
		out[i] = domain.AuditLogEntry{
			ID:         fmt.Sprintf("e%02d", i),
			ActorID:    fmt.Sprintf("actor-%d", i%3),
			Action:     action,
			TargetType: "user",
			TargetID:   fmt.Sprintf("u%d", i),
			Details:    map[string]string{"email": fmt.Sprintf("person%d@example.org", i)},
			CreatedAt:  base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestAuditService_RecordFillsIDAndTime(t *testing.T) {
	repo := new(auditRepoMock)
	repo.On("Append", mock.Anything, mock.MatchedBy(func(e domain.AuditLogEntry) bool {
		return e.ID != "" && !e.CreatedAt.IsZero()
	})).Return(nil)

	err := NewAuditService(repo, nopLogger{}).Record(context.Background(), domain.AuditLogEntry{Action: "x", TargetType: "role"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuditService_RecordRequiresAction(t *testing.T) {
	err := NewAuditService(new(auditRepoMock), nopLogger{}).Record(context.Background(), domain.AuditLogEntry{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuditService_FailedRecordDoesNotPanic(t *testing.T) {
	repo := new(auditRepoMock)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	NewAuditService(repo, nopLogger{}).record(context.Background(), "a", "x", "role", "r1", nil)
	repo.AssertExpectations(t)
}

func TestAuditService_ListPaging(t *testing.T) {
	repo := new(auditRepoMock)
	repo.On("ListRange", mock.Anything, mock.Anything, mock.Anything).Return(auditEntries(25), nil)
	svc := NewAuditService(repo, nopLogger{})

	first, err := svc.List(context.Background(), domain.AuditFilters{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, first.Entries, 10)
	assert.True(t, first.Paging.HasNext)
	assert.Equal(t, 2, first.Paging.NextPage)

	last, err := svc.List(context.Background(), domain.AuditFilters{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, last.Entries, 5)
	assert.False(t, last.Paging.HasNext)
	assert.Equal(t, 2, last.Paging.PrevPage)

	beyond, err := svc.List(context.Background(), domain.AuditFilters{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Entries)

	huge, err := svc.List(context.Background(), domain.AuditFilters{Page: math.MaxInt, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, huge.Entries)
	assert.False(t, huge.Paging.HasNext)
}

func TestAuditService_ListFilters(t *testing.T) {
	repo := new(auditRepoMock)
	repo.On("ListRange", mock.Anything, mock.Anything, mock.Anything).Return(auditEntries(12), nil)
	svc := NewAuditService(repo, nopLogger{})

	page, err := svc.List(context.Background(), domain.AuditFilters{Action: domain.AuditUserBlacklisted, ActorID: "actor-1"})
	require.NoError(t, err)
	for _, e := range page.Entries {
		assert.Equal(t, domain.AuditUserBlacklisted, e.Action)
		assert.Equal(t, "actor-1", e.ActorID)
	}
	assert.Len(t, page.Entries, 2)

	search, err := svc.List(context.Background(), domain.AuditFilters{Search: "PERSON7@"})
	require.NoError(t, err)
	require.Len(t, search.Entries, 1)
	assert.Equal(t, "e07", search.Entries[0].ID)
}

func TestAuditService_ListRejectsInvertedRange(t *testing.T) {
	svc := NewAuditService(new(auditRepoMock), nopLogger{})
	now := time.Now()
	_, err := svc.List(context.Background(), domain.AuditFilters{From: now, To: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuditService_Stats(t *testing.T) {
	repo := new(auditRepoMock)
	entries := auditEntries(6)
	repo.On("ListRange", mock.Anything, mock.Anything, mock.Anything).Return(entries, nil)

	stats, err := NewAuditService(repo, nopLogger{}).Stats(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.ByAction[domain.AuditRoleCreated])
	assert.Equal(t, 3, stats.DistinctActors)
	require.NotNil(t, stats.LastEntryAt)
	assert.True(t, stats.LastEntryAt.Equal(entries[0].CreatedAt))
}
