// Package app wires configuration, storage, feeds and the HTTP router into a
// runnable service. Both the long running server and the Lambda entrypoint
// build through here.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"

	adaptermiddleware "disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/adapters/metrics"
	"disaster-response/internal/application"
	"disaster-response/internal/config"
	"disaster-response/internal/infrastructure/auth"
	"disaster-response/internal/infrastructure/cache"
	"disaster-response/internal/infrastructure/dynamodb"
	"disaster-response/internal/infrastructure/feeds"
	httpiface "disaster-response/internal/interfaces/http"
	"disaster-response/internal/platform/poller"
	"disaster-response/internal/ports"
)

const (
	segmentName    = "disaster-response-http"
	redisKeyPrefix = "disaster-response:"
)

type App struct {
	Echo   *echo.Echo
	Poller *poller.Poller

	closers []io.Closer
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func Build(ctx context.Context, cfg *config.Config, logger ports.Logger) (*App, error) {
	xray.Configure(xray.Config{LogLevel: "error"})
	a := &App{}

	ddbClient, err := dynamodb.NewClient(ctx, cfg.Region, cfg.TableName)
	if err != nil {
		return nil, fmt.Errorf("dynamodb client: %w", err)
	}

	var roleCache, newsCache ports.Cache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		shared := cache.NewRedisCache(client, redisKeyPrefix)
		roleCache, newsCache = shared, shared
		logger.Info(ctx, "using redis cache", "addr", cfg.RedisAddr)
	} else {
		roleCache, newsCache = cache.NewMemoryCache(), cache.NewMemoryCache()
	}

	m := metrics.New()

	auditSvc := application.NewAuditService(dynamodb.NewAuditLogRepository(ddbClient), logger)
	roleSvc := application.NewRoleService(dynamodb.NewRoleRepository(ddbClient), roleCache, cfg.RoleCacheTTL, auditSvc, logger)
	userSvc := application.NewUserService(dynamodb.NewUserRepository(ddbClient), roleSvc, auditSvc, logger)
	authSvc := application.NewAuthorizationService(userSvc)
	reportSvc := application.NewReportService(dynamodb.NewReportRepository(ddbClient), auditSvc, logger)

	httpClient := feeds.NewHTTPClient(cfg.NewsHTTPTimeout)
	sources := []ports.NewsSource{
		feeds.NewUSGS(httpClient, cfg.USGSFeedURL),
		feeds.NewEONET(httpClient, cfg.EONETFeedURL),
		feeds.NewReliefWeb(httpClient, cfg.ReliefWebFeedURL, cfg.ReliefWebAppName),
	}
	newsSvc := application.NewNewsService(sources, newsCache, m, application.NewsConfig{
		MaxItems: cfg.NewsMaxItems,
		CacheTTL: cfg.NewsCacheTTL(),
	}, logger)
	a.Poller = poller.New(newsSvc, cfg.NewsRefreshInterval, logger)

	mode, err := adaptermiddleware.ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	var cognito echo.MiddlewareFunc
	if mode == adaptermiddleware.ModeCognito {
		cognito = auth.NewCognitoMiddleware(cfg.UserPoolID, cfg.Region).Handler
	}
	authMW, err := adaptermiddleware.AuthMiddleware(adaptermiddleware.AuthConfig{
		Mode:    mode,
		APIKey:  cfg.APIKey,
		Cognito: cognito,
	})
	if err != nil {
		return nil, fmt.Errorf("auth middleware: %w", err)
	}

	a.Echo = httpiface.NewRouter(httpiface.Handlers{
		Health:        httpiface.NewHealthHandler(),
		News:          httpiface.NewNewsHandler(newsSvc, logger),
		Permissions:   httpiface.NewPermissionsHandler(nil, logger),
		Authorization: httpiface.NewAuthorizationHandler(authSvc, userSvc, logger),
		Roles:         httpiface.NewRolesHandler(roleSvc, userSvc, logger),
		Users:         httpiface.NewUsersHandler(userSvc, logger),
		Audit:         httpiface.NewAuditHandler(auditSvc, logger),
		Reports:       httpiface.NewReportsHandler(reportSvc, userSvc, logger),
	}, httpiface.Middleware{
		Auth:           authMW,
		XRay:           adaptermiddleware.XRayMiddleware(segmentName),
		RequestLogger:  adaptermiddleware.RequestLogger(logger),
		Metrics:        m.Middleware(),
		NewsRateLimit:  adaptermiddleware.RateLimit(cfg.RateLimitPerMinute),
		MetricsHandler: m.Handler(),
		Authorizer:     authSvc,
	})
	return a, nil
}
