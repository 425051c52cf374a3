package ports

import (
	"context"

	"disaster-response/internal/domain"
)

// NewsSource fetches and normalizes one upstream disaster feed.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.DisasterNewsItem, error)
}

// NewsMetrics observes feed polling outcomes.
type NewsMetrics interface {
	ObserveFetch(source string, items int, err error)
	ObserveRefresh(items int, failedSources int)
}
