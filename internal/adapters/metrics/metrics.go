package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry for the HTTP surface and the
// news poller.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	feedFetches     *prometheus.CounterVec
	feedItems       *prometheus.GaugeVec
	newsRefreshes   prometheus.Counter
	newsItems       prometheus.Gauge
	failedSources   prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disaster_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "disaster_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disaster_news_fetches_total",
			Help: "Upstream feed fetches by source and outcome.",
		}, []string{"source", "status"}),
		feedItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "disaster_news_source_items",
			Help: "Items returned by the last successful fetch of each source.",
		}, []string{"source"}),
		newsRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disaster_news_refreshes_total",
			Help: "Completed news refresh cycles.",
		}),
		newsItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "disaster_news_items",
			Help: "Items collected in the last refresh before merging.",
		}),
		failedSources: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "disaster_news_failed_sources",
			Help: "Sources that failed during the last refresh.",
		}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal, m.requestDuration,
		m.feedFetches, m.feedItems, m.newsRefreshes, m.newsItems, m.failedSources,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			m.requestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) ObserveFetch(source string, items int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.feedFetches.WithLabelValues(source, "failure").Inc()
		return
	}
	m.feedFetches.WithLabelValues(source, "success").Inc()
	m.feedItems.WithLabelValues(source).Set(float64(items))
}

func (m *Metrics) ObserveRefresh(items int, failedSources int) {
	if m == nil {
		return
	}
	m.newsRefreshes.Inc()
	m.newsItems.Set(float64(items))
	m.failedSources.Set(float64(failedSources))
}
