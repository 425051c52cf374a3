package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"disaster-response/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Debug(context.Context, string, ...any) {}

type roleRepoMock struct{ mock.Mock }

func (m *roleRepoMock) Create(ctx context.Context, role domain.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *roleRepoMock) Update(ctx context.Context, role domain.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *roleRepoMock) Delete(ctx context.Context, roleID string) error {
	return m.Called(ctx, roleID).Error(0)
}

func (m *roleRepoMock) GetByID(ctx context.Context, roleID string) (domain.Role, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *roleRepoMock) List(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Role), args.Error(1)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user domain.UserRecord) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) Save(ctx context.Context, user domain.UserRecord) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) GetByID(ctx context.Context, userID string) (domain.UserRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserRecord), args.Error(1)
}

func (m *userRepoMock) List(ctx context.Context) ([]domain.UserRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.UserRecord), args.Error(1)
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Append(ctx context.Context, entry domain.AuditLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *auditRepoMock) ListRange(ctx context.Context, from, to time.Time) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

type reportRepoMock struct{ mock.Mock }

func (m *reportRepoMock) Create(ctx context.Context, report domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *reportRepoMock) Update(ctx context.Context, report domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *reportRepoMock) Delete(ctx context.Context, reportID string) error {
	return m.Called(ctx, reportID).Error(0)
}

func (m *reportRepoMock) GetByID(ctx context.Context, reportID string) (domain.Report, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *reportRepoMock) List(ctx context.Context) ([]domain.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Report), args.Error(1)
}

// mapCache round-trips values through JSON like the real cache adapters.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMapCache() *mapCache { return &mapCache{entries: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.deletes++
	return nil
}

func newAudit(repo *auditRepoMock) *AuditService {
	return NewAuditService(repo, nopLogger{})
}
