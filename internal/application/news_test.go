package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type stubSource struct {
	name  string
	items []domain.DisasterNewsItem
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) ([]domain.DisasterNewsItem, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.items, s.err
}

type recordingMetrics struct {
	mu       sync.Mutex
	fetches  map[string]int
	failures int
}

func (m *recordingMetrics) ObserveFetch(source string, items int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetches == nil {
		m.fetches = map[string]int{}
	}
	m.fetches[source] = items
	if err != nil {
		m.failures++
	}
}

func (m *recordingMetrics) ObserveRefresh(int, int) {}

func item(id, source string, at time.Time) domain.DisasterNewsItem {
	return domain.DisasterNewsItem{ID: id, Title: id, Source: source, Category: "earthquake", Timestamp: at}
}

func TestMergeNews_SortsDedupesAndCaps(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	items := []domain.DisasterNewsItem{
		item("a", "x", base),
		item("b", "x", base.Add(2*time.Hour)),
		item("a", "x", base.Add(5*time.Hour)),
		item("c", "y", base.Add(time.Hour)),
		item("d", "y", base.Add(-time.Hour)),
	}

	got := MergeNews(items, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, MergeNews(items, 0), 4)
}

func TestNewsService_RefreshToleratesPartialFailure(t *testing.T) {
	now := time.Now().UTC()
	usgs := &stubSource{name: domain.SourceUSGS, items: []domain.DisasterNewsItem{item("usgs:1", domain.SourceUSGS, now)}}
	eonet := &stubSource{name: domain.SourceEONET, err: errors.New("503")}
	relief := &stubSource{name: domain.SourceReliefWeb, items: []domain.DisasterNewsItem{item("rw:1", domain.SourceReliefWeb, now.Add(-time.Hour))}}
	metrics := &recordingMetrics{}
	cache := newMapCache()
	svc := NewNewsService([]ports.NewsSource{usgs, eonet, relief}, cache, metrics, NewsConfig{MaxItems: 10}, nopLogger{})

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "usgs:1", snap.Items[0].ID)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, domain.SourceEONET, snap.Errors[0].Source)
	assert.Equal(t, 1, metrics.failures)

	_, cached := cache.entries[newsSnapshotCacheKey]
	assert.True(t, cached)
}

func TestNewsService_RefreshFailsWhenEverySourceFails(t *testing.T) {
	a := &stubSource{name: "a", err: errors.New("down")}
	b := &stubSource{name: "b", err: errors.New("down")}
	svc := NewNewsService([]ports.NewsSource{a, b}, newMapCache(), nil, NewsConfig{}, nopLogger{})

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestNewsService_LatestUsesCacheAndFilters(t *testing.T) {
	now := time.Now().UTC()
	src := &stubSource{name: domain.SourceUSGS, items: []domain.DisasterNewsItem{
		item("q1", domain.SourceUSGS, now),
		{ID: "f1", Source: domain.SourceUSGS, Category: "wildfire", Timestamp: now.Add(-time.Minute)},
		item("q2", domain.SourceUSGS, now.Add(-2*time.Minute)),
	}}
	svc := NewNewsService([]ports.NewsSource{src}, newMapCache(), nil, NewsConfig{}, nopLogger{})

	snap, err := svc.Latest(context.Background(), domain.NewsQuery{Category: "EARTHQUAKE", Limit: 1})
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "q1", snap.Items[0].ID)

	snap, err = svc.Latest(context.Background(), domain.NewsQuery{})
	require.NoError(t, err)
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestNewsService_ConcurrentRefreshesShareOnePoll(t *testing.T) {
	src := &stubSource{name: "slow", items: []domain.DisasterNewsItem{item("s1", "slow", time.Now())}, delay: 50 * time.Millisecond}
	svc := NewNewsService([]ports.NewsSource{src}, newMapCache(), nil, NewsConfig{}, nopLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, src.calls.Load(), int32(2))
}

func TestNewsService_RefreshHonorsCallerCancellation(t *testing.T) {
	src := &stubSource{name: "slow", delay: 200 * time.Millisecond}
	svc := NewNewsService([]ports.NewsSource{src}, newMapCache(), nil, NewsConfig{}, nopLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
