package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

const newsSnapshotCacheKey = "news:snapshot"

type NewsConfig struct {
	MaxItems int
	CacheTTL time.Duration
}

type NewsService struct {
	sources []ports.NewsSource
	cache   ports.Cache
	metrics ports.NewsMetrics
	logger  ports.Logger
	cfg     NewsConfig
	group   singleflight.Group
}

func NewNewsService(sources []ports.NewsSource, cache ports.Cache, metrics ports.NewsMetrics, cfg NewsConfig, logger ports.Logger) *NewsService {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 30
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &NewsService{sources: sources, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Refresh polls every source and stores the merged snapshot. Concurrent
// callers share one poll. It fails only when every source fails.
func (s *NewsService) Refresh(ctx context.Context) (domain.NewsSnapshot, error) {
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return domain.NewsSnapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.NewsSnapshot{}, res.Err
		}
		return res.Val.(domain.NewsSnapshot), nil
	}
}

func (s *NewsService) refresh(ctx context.Context) (domain.NewsSnapshot, error) {
	var (
		mu      sync.Mutex
		items   []domain.DisasterNewsItem
		errs    []domain.SourceError
		g       errgroup.Group
		started = time.Now()
	)
	for _, src := range s.sources {
		g.Go(func() error {
			got, err := src.Fetch(ctx)
			if s.metrics != nil {
				s.metrics.ObserveFetch(src.Name(), len(got), err)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn(ctx, "news source failed", "source", src.Name(), "error", err)
				errs = append(errs, domain.SourceError{Source: src.Name(), Message: err.Error()})
				return nil
			}
			items = append(items, got...)
			return nil
		})
	}
	_ = g.Wait()

	slices.SortFunc(errs, func(a, b domain.SourceError) int { return strings.Compare(a.Source, b.Source) })
	if s.metrics != nil {
		s.metrics.ObserveRefresh(len(items), len(errs))
	}
	if len(s.sources) > 0 && len(errs) == len(s.sources) {
		return domain.NewsSnapshot{}, fmt.Errorf("all %d news sources failed: %w", len(errs), domain.ErrUpstream)
	}

	snapshot := domain.NewsSnapshot{
		Items:     MergeNews(items, s.cfg.MaxItems),
		FetchedAt: time.Now().UTC(),
		Errors:    errs,
	}
	if err := s.cache.Set(ctx, newsSnapshotCacheKey, snapshot, s.cfg.CacheTTL); err != nil {
		s.logger.Warn(ctx, "news cache write failed", "error", err)
	}
	s.logger.Info(ctx, "news refreshed", "items", len(snapshot.Items), "failed_sources", len(errs), "duration", time.Since(started).String())
	return snapshot, nil
}

// Latest returns the cached snapshot, polling the sources on a miss.
func (s *NewsService) Latest(ctx context.Context, q domain.NewsQuery) (domain.NewsSnapshot, error) {
	var snapshot domain.NewsSnapshot
	hit, err := s.cache.Get(ctx, newsSnapshotCacheKey, &snapshot)
	if err != nil {
		s.logger.Warn(ctx, "news cache read failed", "error", err)
	}
	if !hit {
		snapshot, err = s.Refresh(ctx)
		if err != nil {
			return domain.NewsSnapshot{}, err
		}
	}
	snapshot.Items = filterNews(snapshot.Items, q)
	return snapshot, nil
}

func filterNews(items []domain.DisasterNewsItem, q domain.NewsQuery) []domain.DisasterNewsItem {
	out := make([]domain.DisasterNewsItem, 0, len(items))
	for _, it := range items {
		if q.Source != "" && !strings.EqualFold(it.Source, q.Source) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(it.Category, q.Category) {
			continue
		}
		out = append(out, it)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

// MergeNews drops duplicate ids, orders newest first and keeps at most limit
// items.
func MergeNews(items []domain.DisasterNewsItem, limit int) []domain.DisasterNewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.DisasterNewsItem, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	slices.SortStableFunc(out, func(a, b domain.DisasterNewsItem) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
