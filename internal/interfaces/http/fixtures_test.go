package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	adaptermiddleware "disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/application"
	"disaster-response/internal/domain"
	"disaster-response/internal/infrastructure/cache"
	"disaster-response/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Debug(context.Context, string, ...any) {}

type memRoles struct {
	mu    sync.Mutex
	roles map[string]domain.Role
}

func (r *memRoles) Create(_ context.Context, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[role.ID]; ok {
		return domain.ErrConflict
	}
	r.roles[role.ID] = role
	return nil
}

func (r *memRoles) Update(_ context.Context, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[role.ID]; !ok {
		return domain.ErrNotFound
	}
	r.roles[role.ID] = role
	return nil
}

func (r *memRoles) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *memRoles) GetByID(_ context.Context, id string) (domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return domain.Role{}, domain.ErrNotFound
	}
	return role, nil
}

func (r *memRoles) List(context.Context) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]domain.UserRecord
}

func (r *memUsers) Create(_ context.Context, u domain.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return domain.ErrConflict
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) Save(_ context.Context, u domain.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.UserRecord{}, domain.ErrNotFound
	}
	u.RoleIDs = append([]string(nil), u.RoleIDs...)
	return u, nil
}

func (r *memUsers) List(context.Context) ([]domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.UserRecord, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []domain.AuditLogEntry
}

func (r *memAudit) Append(_ context.Context, e domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]domain.AuditLogEntry{e}, r.entries...)
	return nil
}

func (r *memAudit) ListRange(_ context.Context, from, to time.Time) ([]domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditLogEntry
	for _, e := range r.entries {
		if !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type memReports struct {
	mu      sync.Mutex
	reports map[string]domain.Report
}

func (r *memReports) Create(_ context.Context, rep domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rep.ID] = rep
	return nil
}

func (r *memReports) Update(_ context.Context, rep domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[rep.ID]; !ok {
		return domain.ErrNotFound
	}
	r.reports[rep.ID] = rep
	return nil
}

func (r *memReports) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.reports, id)
	return nil
}

func (r *memReports) GetByID(_ context.Context, id string) (domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	return rep, nil
}

func (r *memReports) List(context.Context) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	return out, nil
}

type stubSource struct {
	name  string
	items []domain.DisasterNewsItem
	err   error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context) ([]domain.DisasterNewsItem, error) {
	return s.items, s.err
}

type apiFixture struct {
	e       *echo.Echo
	audit   *memAudit
	reports *memReports
}

func newAPIFixture(t *testing.T, sources ...stubSource) *apiFixture {
	t.Helper()
	authMW, err := adaptermiddleware.AuthMiddleware(adaptermiddleware.AuthConfig{Mode: adaptermiddleware.ModeNone})
	require.NoError(t, err)
	return newAPIFixtureWithAuth(t, authMW, sources...)
}

func newAPIFixtureWithAuth(t *testing.T, authMW echo.MiddlewareFunc, sources ...stubSource) *apiFixture {
	t.Helper()
	logger := nopLogger{}
	now := time.Now().UTC()
	users := &memUsers{users: map[string]domain.UserRecord{
		"root":    {ID: "root", Name: "Root", Email: "root@example.com", RoleIDs: []string{domain.RoleSuperAdmin}, CreatedAt: now},
		"admin-1": {ID: "admin-1", Name: "Admin", Email: "admin@example.com", RoleIDs: []string{domain.RoleAdmin}, CreatedAt: now},
		"cj-1":    {ID: "cj-1", Name: "Journalist", Email: "cj@example.com", RoleIDs: []string{domain.RoleCJ}, CreatedAt: now},
		"user-1":  {ID: "user-1", Name: "Citizen", Email: "user@example.com", RoleIDs: []string{domain.RoleUser}, CreatedAt: now},
		"user-2":  {ID: "user-2", Name: "Neighbour", Email: "user2@example.com", RoleIDs: []string{domain.RoleUser}, CreatedAt: now},
		"banned":  {ID: "banned", Name: "Banned", Email: "banned@example.com", RoleIDs: []string{domain.RoleAdmin}, IsBlacklisted: true, CreatedAt: now},
	}}
	auditRepo := &memAudit{}
	reportRepo := &memReports{reports: map[string]domain.Report{}}

	auditSvc := application.NewAuditService(auditRepo, logger)
	roleSvc := application.NewRoleService(&memRoles{roles: map[string]domain.Role{}}, cache.NewMemoryCache(), time.Minute, auditSvc, logger)
	userSvc := application.NewUserService(users, roleSvc, auditSvc, logger)
	authSvc := application.NewAuthorizationService(userSvc)
	reportSvc := application.NewReportService(reportRepo, auditSvc, logger)

	newsSources := make([]ports.NewsSource, 0, len(sources))
	for _, s := range sources {
		newsSources = append(newsSources, s)
	}
	newsSvc := application.NewNewsService(newsSources, cache.NewMemoryCache(), nil, application.NewsConfig{MaxItems: 10}, logger)

	e := NewRouter(Handlers{
		Health:        NewHealthHandler(),
		News:          NewNewsHandler(newsSvc, logger),
		Permissions:   NewPermissionsHandler(nil, logger),
		Authorization: NewAuthorizationHandler(authSvc, userSvc, logger),
		Roles:         NewRolesHandler(roleSvc, userSvc, logger),
		Users:         NewUsersHandler(userSvc, logger),
		Audit:         NewAuditHandler(auditSvc, logger),
		Reports:       NewReportsHandler(reportSvc, userSvc, logger),
	}, Middleware{
		Auth:          authMW,
		NewsRateLimit: adaptermiddleware.RateLimit(1000),
		Authorizer:    authSvc,
	})
	return &apiFixture{e: e, audit: auditRepo, reports: reportRepo}
}

func (f *apiFixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != "" {
		req.Header.Set(adaptermiddleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

var errFeedDown = errors.New("feed down")
